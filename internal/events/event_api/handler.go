package event_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/events"
	"ms-marketplace/internal/events/db"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/models"
)

// parseDate accepts the wire format for calendar dates.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

type Handler struct {
	EventService *events.EventService
	Logger       *logger.Logger
}

type eventRequest struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Status      string `json:"status,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	username, _ := auth.UsernameFromContext(r.Context())

	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "Invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	event := models.Event{
		ID:           req.ID,
		UserID:       userID,
		UserUsername: username,
		Name:         req.Name,
		Description:  req.Description,
		Date:         date,
		Status:       models.EventStatus(req.Status),
		Category:     models.EventCategory(req.Category),
	}

	created, err := h.EventService.CreateEvent(event)
	if err != nil {
		if errors.Is(err, db.ErrNameTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create event: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Logger.Info("EVENT", "Created event "+created.Slug)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", created.AbsoluteURL())
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	event, err := h.EventService.GetEvent(id)
	if err != nil {
		http.Error(w, "Event not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(event)
}

func (h *Handler) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	event, err := h.EventService.GetEventBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		http.Error(w, "Event not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.EventService.ListEvents()
	if err != nil {
		http.Error(w, "Failed to fetch events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "Invalid date: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	username, _ := auth.UsernameFromContext(r.Context())

	updated, err := h.EventService.UpdateEvent(id, models.Event{
		UserID:       userID,
		UserUsername: username,
		Name:         req.Name,
		Description:  req.Description,
		Date:         date,
		Status:       models.EventStatus(req.Status),
		Category:     models.EventCategory(req.Category),
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNameTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "Event not found: "+err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to update event: "+err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.EventService.CancelEvent(id); err != nil {
		http.Error(w, "Failed to cancel event: "+err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Event canceled"))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.EventService.DeleteEvent(id); err != nil {
		http.Error(w, "Failed to delete event: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.Logger.Info("EVENT", "Deleted event "+strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Event deleted"))
}
