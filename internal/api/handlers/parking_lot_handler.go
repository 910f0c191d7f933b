package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/entities"
)

// ParkingLotHandler handles parking lot HTTP requests
type ParkingLotHandler struct {
	lots    *services.ParkingLotService
	reviews *services.ReviewService
}

// NewParkingLotHandler creates a new parking lot handler
func NewParkingLotHandler(lots *services.ParkingLotService, reviews *services.ReviewService) *ParkingLotHandler {
	return &ParkingLotHandler{
		lots:    lots,
		reviews: reviews,
	}
}

// ListParkingLots handles GET /api/parking-lots
func (h *ParkingLotHandler) ListParkingLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.lots.ListParkingLots(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newParkingLotResponses(lots))
}

// CreateParkingLot handles POST /api/parking-lots
func (h *ParkingLotHandler) CreateParkingLot(w http.ResponseWriter, r *http.Request) {
	var input entities.CreateParkingLotInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	lot, err := h.lots.CreateParkingLot(r.Context(), &input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newParkingLotResponse(lot))
}

// SearchParkingLots handles GET /api/parking-lots/search
func (h *ParkingLotHandler) SearchParkingLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.lots.Search(r.Context(), parseSearchFilters(r.URL.Query()))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newParkingLotResponses(lots))
}

// SuggestParkingLots handles GET /api/parking-lots/suggest?q=&limit=
func (h *ParkingLotHandler) SuggestParkingLots(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondWithJSON(w, http.StatusOK, []*entities.LotSuggestion{})
		return
	}

	suggestions, err := h.lots.Suggest(r.Context(), query, queryLimit(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, suggestions)
}

// GetParkingLot handles GET /api/parking-lots/{id}
func (h *ParkingLotHandler) GetParkingLot(w http.ResponseWriter, r *http.Request) {
	lot, err := h.lots.GetParkingLot(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newParkingLotResponse(lot))
}

// UpdateParkingLot handles PUT /api/parking-lots/{id}
func (h *ParkingLotHandler) UpdateParkingLot(w http.ResponseWriter, r *http.Request) {
	var patch entities.ParkingLotPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	lot, err := h.lots.UpdateParkingLot(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newParkingLotResponse(lot))
}

// ListReviews handles GET /api/parking-lots/{id}/reviews
func (h *ParkingLotHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListByParkingLot(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if reviews == nil {
		reviews = []*entities.Review{}
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

// parseSearchFilters reads the search query parameters. Malformed numbers
// and zero bounds are ignored, and availableOnly is set only by the literal "true".
func parseSearchFilters(q url.Values) entities.SearchFilters {
	filters := entities.SearchFilters{
		Search:        q.Get("search"),
		VehicleType:   entities.VehicleType(q.Get("vehicleType")),
		AvailableOnly: q.Get("availableOnly") == "true",
	}
	if v, err := strconv.Atoi(q.Get("maxPrice")); err == nil && v != 0 {
		filters.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(q.Get("minRating"), 64); err == nil && v != 0 {
		filters.MinRating = &v
	}
	if v, err := strconv.ParseFloat(q.Get("maxDistance"), 64); err == nil {
		filters.MaxDistance = &v
	}
	return filters
}
