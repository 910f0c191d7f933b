package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/entities"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

// MsgRewardRedeemed is the body message of a successful redemption
const MsgRewardRedeemed = "Reward redeemed successfully"

// MsgUserIDRequired answers a redemption without a user id
const MsgUserIDRequired = "User ID is required"

// RewardHandler handles reward catalog and redemption HTTP requests
type RewardHandler struct {
	rewards *services.RewardService
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewards *services.RewardService) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// redeemResponse is the redemption body. Failures carry the AppError type
// as code so clients can tell a missing reward from a short balance.
type redeemResponse struct {
	Message    string               `json:"message"`
	Code       apperrors.ErrorType  `json:"code,omitempty"`
	UserReward *entities.UserReward `json:"userReward,omitempty"`
}

// ListRewards handles GET /api/rewards
func (h *RewardHandler) ListRewards(w http.ResponseWriter, r *http.Request) {
	rewards, err := h.rewards.ListActive(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if rewards == nil {
		rewards = []*entities.Reward{}
	}
	respondWithJSON(w, http.StatusOK, rewards)
}

// Redeem handles POST /api/rewards/{id}/redeem
func (h *RewardHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var input entities.RedeemRewardInput
	if err := decodeJSON(r, &input); err != nil || strings.TrimSpace(input.UserID) == "" {
		respondWithJSON(w, http.StatusBadRequest, redeemResponse{
			Message: MsgUserIDRequired,
			Code:    apperrors.ErrorTypeValidation,
		})
		return
	}

	redemption, err := h.rewards.Redeem(r.Context(), input.UserID, r.PathValue("id"))
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && (appErr.Type == apperrors.ErrorTypeNotFound || appErr.Type == apperrors.ErrorTypeBusinessRule) {
			respondWithJSON(w, http.StatusBadRequest, redeemResponse{
				Message: appErr.Message,
				Code:    appErr.Type,
			})
			return
		}
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, redeemResponse{
		Message:    MsgRewardRedeemed,
		UserReward: redemption,
	})
}
