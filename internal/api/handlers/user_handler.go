package handlers

import (
	"net/http"

	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/entities"
)

// UserHandler handles user profile and loyalty HTTP requests
type UserHandler struct {
	users   *services.UserService
	points  *services.PointsService
	rewards *services.RewardService
	lots    *services.ParkingLotService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, points *services.PointsService, rewards *services.RewardService, lots *services.ParkingLotService) *UserHandler {
	return &UserHandler{
		users:   users,
		points:  points,
		rewards: rewards,
		lots:    lots,
	}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input entities.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), &input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch entities.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// PointsHistory handles GET /api/users/{id}/points-history
func (h *UserHandler) PointsHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.points.History(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if history == nil {
		history = []*entities.PointsHistory{}
	}
	respondWithJSON(w, http.StatusOK, history)
}

// ListRewards handles GET /api/users/{id}/rewards
func (h *UserHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	owned, err := h.rewards.ListUserRewards(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if owned == nil {
		owned = []*entities.UserReward{}
	}
	respondWithJSON(w, http.StatusOK, owned)
}

// ListParkingLots handles GET /api/users/{id}/parking-lots
func (h *UserHandler) ListParkingLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.lots.ListByOwner(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newParkingLotResponses(lots))
}
