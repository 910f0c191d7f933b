package handlers

import (
	"net/http"

	"github.com/parkshare/backend/internal/api/loaders"
	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
)

// CommunityHandler handles community update HTTP requests
type CommunityHandler struct {
	community *services.CommunityService
	store     repositories.Store
}

// NewCommunityHandler creates a new community handler. store backs the
// feed loaders when the request carries none.
func NewCommunityHandler(community *services.CommunityService, store repositories.Store) *CommunityHandler {
	return &CommunityHandler{
		community: community,
		store:     store,
	}
}

// ListUpdates handles GET /api/community-updates
func (h *CommunityHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.community.Recent(r.Context(), queryLimit(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if updates == nil {
		updates = []*entities.CommunityUpdate{}
	}
	respondWithJSON(w, http.StatusOK, updates)
}

// Feed handles GET /api/community-updates/feed. Lot names and usernames are
// resolved with one batched lookup each; unknown ids leave the name empty.
func (h *CommunityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	updates, err := h.community.Recent(ctx, queryLimit(r))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	l := loaders.For(ctx)
	if l == nil {
		l = loaders.NewLoaders(h.store)
	}

	lotThunks := make([]func() (*entities.ParkingLot, error), len(updates))
	userThunks := make([]func() (*entities.User, error), len(updates))
	for i, u := range updates {
		lotThunks[i] = l.ParkingLotLoader.Load(ctx, u.ParkingLotID)
		userThunks[i] = l.UserLoader.Load(ctx, u.UserID)
	}

	items := make([]*entities.CommunityFeedItem, len(updates))
	for i, u := range updates {
		item := &entities.CommunityFeedItem{CommunityUpdate: u}
		if lot, err := lotThunks[i](); err == nil {
			item.ParkingLotName = lot.Name
		}
		if user, err := userThunks[i](); err == nil {
			item.Username = user.Username
		}
		items[i] = item
	}
	respondWithJSON(w, http.StatusOK, items)
}

// CreateUpdate handles POST /api/community-updates
func (h *CommunityHandler) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	var input entities.CreateCommunityUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	update, err := h.community.CreateUpdate(r.Context(), &input)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, update)
}
