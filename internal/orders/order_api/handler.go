package order_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/models"
	"ms-marketplace/internal/orders"
	"ms-marketplace/internal/orders/pass_generator"
	"ms-marketplace/internal/utils"
)

type Handler struct {
	OrderService *orders.OrderService
	Passes       *pass_generator.PassGenerator
	Logger       *logger.Logger
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	placed, err := h.OrderService.PlaceOrder(userID, req)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || strings.Contains(err.Error(), "not found") {
			http.Error(w, "Listing not found: "+err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to place order: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Logger.LogOrder("CREATE", placed.Order.ID, fmt.Sprintf("%d line items", len(placed.Items)))
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Order placed", placed))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		http.Error(w, "Order not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// ListMyOrders returns the caller's orders, newest first.
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.OrderService.ListOrdersByUser(userID)
	if err != nil {
		http.Error(w, "Failed to fetch orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// ListAllOrders returns every order, newest first. Moderation view.
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.OrderService.ListOrders()
	if err != nil {
		http.Error(w, "Failed to fetch orders: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// OrderPass serves the encrypted pickup QR for an order.
func (h *Handler) OrderPass(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.OrderService.GetOrder(id)
	if err != nil {
		http.Error(w, "Order not found: "+err.Error(), http.StatusNotFound)
		return
	}

	png, err := h.Passes.GeneratePass(*order)
	if err != nil {
		http.Error(w, "Failed to generate pass: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
