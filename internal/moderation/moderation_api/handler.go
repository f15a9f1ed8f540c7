package moderation_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/models"
	"ms-marketplace/internal/moderation"
	"ms-marketplace/internal/moderation/db"
)

type Handler struct {
	ModerationService *moderation.ModerationService
	Logger            *logger.Logger
}

type reportRequest struct {
	ReportedUser string `json:"reported_user"`
	Listing      int64  `json:"listing"`
	Reason       string `json:"reason"`
	Description  string `json:"description"`
	ShowForm     bool   `json:"show_form"`
}

type disputeRequest struct {
	Explanation string `json:"explanation"`
}

func (h *Handler) FileReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	report, err := h.ModerationService.FileReport(models.Report{
		UserID:         userID,
		ReportedUserID: req.ReportedUser,
		ListingID:      req.Listing,
		Reason:         req.Reason,
		Description:    req.Description,
		ShowForm:       req.ShowForm,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Not found: "+err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to file report: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Logger.LogModeration("FILE", report.ID, "report against "+report.ReportedUserID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(report)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report id", http.StatusBadRequest)
		return
	}

	report, err := h.ModerationService.GetReport(id)
	if err != nil {
		http.Error(w, "Report not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	list, err := h.ModerationService.ListReports()
	if err != nil {
		http.Error(w, "Failed to fetch reports: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) VerifyReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report id", http.StatusBadRequest)
		return
	}

	if err := h.ModerationService.VerifyReport(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.Logger.LogModeration("VERIFY", id, "report verified")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Report verified"))
}

func (h *Handler) DisputeReport(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report id", http.StatusBadRequest)
		return
	}

	var req disputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())

	dispute, err := h.ModerationService.DisputeReport(id, userID, req.Explanation)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrDisputeExists):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "Report not found: "+err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to dispute report: "+err.Error(), http.StatusBadRequest)
		}
		return
	}

	h.Logger.LogModeration("DISPUTE", id, "dispute recorded")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dispute)
}

func (h *Handler) GetDispute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid report id", http.StatusBadRequest)
		return
	}

	dispute, err := h.ModerationService.GetDispute(id)
	if err != nil {
		http.Error(w, "Dispute not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dispute)
}
