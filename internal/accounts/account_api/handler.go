package account_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"ms-marketplace/internal/accounts"
	"ms-marketplace/internal/accounts/db"
	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/models"
)

type Handler struct {
	AccountService *accounts.AccountService
	Logger         *logger.Logger
}

type openAccountRequest struct {
	AccountID string `json:"account_id"`
}

type fundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.AccountService.OpenAccount(userID, req.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "User not found: "+err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to open account: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Logger.Info("ACCOUNT", "Opened account for "+account.UserUsername)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.AccountService.GetAccount(userID)
	if err != nil {
		http.Error(w, "Account not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

func (h *Handler) UpdateAccountID(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.AccountService.UpdateAccountID(userID, req.AccountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Account not found: "+err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update account: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.adjustFunds(w, r, h.AccountService.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.adjustFunds(w, r, h.AccountService.Withdraw)
}

func (h *Handler) adjustFunds(w http.ResponseWriter, r *http.Request, fn func(string, decimal.Decimal) (*models.Account, error)) {
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := fn(userID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrInsufficientFunds):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "Account not found: "+err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to adjust funds: "+err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}
