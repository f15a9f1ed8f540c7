package listing_api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-marketplace/internal/auth"
	"ms-marketplace/internal/listings"
	"ms-marketplace/internal/logger"
	"ms-marketplace/internal/media"
	"ms-marketplace/internal/models"
	"ms-marketplace/internal/utils"
)

type Handler struct {
	ListingService *listings.ListingService
	Media          *media.Store
	Logger         *logger.Logger
}

// storeImage decodes a base64/data-URI payload and persists it, returning the
// stored file name. Empty payloads are fine: the image field is optional.
func (h *Handler) storeImage(payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	decoded, ext, err := media.Decode(payload)
	if err != nil {
		return "", err
	}

	return h.Media.Save(decoded, ext)
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req models.ListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	imageName, err := h.storeImage(req.Image)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid image", err.Error()))
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	username, _ := auth.UsernameFromContext(r.Context())

	listing := models.Listing{
		UserID:       userID,
		UserUsername: username,
		EventID:      req.EventID,
		Price:        req.Price,
		Status:       models.ListingStatus(req.Status),
		Image:        imageName,
	}

	created, err := h.ListingService.CreateListing(listing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Event not found: "+err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to create listing: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.Logger.LogListing("CREATE", created.ID, "listed against event "+created.EventName)
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Listing created", created))
}

func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	var req models.ListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	imageName, err := h.storeImage(req.Image)
	if err != nil {
		http.Error(w, "Invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	username, _ := auth.UsernameFromContext(r.Context())

	updated, err := h.ListingService.UpdateListing(id, models.Listing{
		UserID:       userID,
		UserUsername: username,
		EventID:      req.EventID,
		Price:        req.Price,
		Status:       models.ListingStatus(req.Status),
		Image:        imageName,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Not found: "+err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update listing: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

func (h *Handler) ViewListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	listing, err := h.ListingService.GetListing(id)
	if err != nil {
		http.Error(w, "Listing not found: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listing)
}

func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	list, err := h.ListingService.ListListings()
	if err != nil {
		http.Error(w, "Failed to fetch listings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	list, err := h.ListingService.ListByEvent(eventID)
	if err != nil {
		http.Error(w, "Failed to fetch listings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// RecentListings is the public storefront feed.
func (h *Handler) RecentListings(w http.ResponseWriter, r *http.Request) {
	list, err := h.ListingService.RecentListings(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch recent listings: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) MarkSold(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, h.ListingService.MarkSold, "Listing marked sold")
}

func (h *Handler) MarkExpired(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, h.ListingService.MarkExpired, "Listing marked expired")
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, fn func(int64) error, message string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	if err := fn(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(message))
}

func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "listingID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid listing id", http.StatusBadRequest)
		return
	}

	if err := h.ListingService.DeleteListing(id); err != nil {
		http.Error(w, "Failed to delete listing: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
