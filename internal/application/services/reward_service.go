package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

// Redemption failure messages shown to clients
const (
	MsgRewardOrUserNotFound = "Reward or user not found"
	MsgInsufficientPoints   = "Insufficient points"
)

// RewardService handles the reward catalog and redemptions
type RewardService struct {
	store      repositories.Store
	points     *PointsService
	dispatcher *Dispatcher
}

// NewRewardService creates a new reward service
func NewRewardService(store repositories.Store, points *PointsService, dispatcher *Dispatcher) *RewardService {
	return &RewardService{store: store, points: points, dispatcher: dispatcher}
}

// ListActive returns the redeemable catalog
func (s *RewardService) ListActive(ctx context.Context) ([]*entities.Reward, error) {
	return s.store.Rewards().ListActive(ctx)
}

// ListUserRewards returns a user's redemptions, newest first
func (s *RewardService) ListUserRewards(ctx context.Context, userID string) ([]*entities.UserReward, error) {
	return s.store.UserRewards().ListByUser(ctx, userID)
}

// Redeem exchanges points for a reward. The balance is debited exactly once,
// through the ledger, and the redemption is recorded in the same transaction.
// Inactive rewards are hidden from the catalog but stay redeemable by ID.
func (s *RewardService) Redeem(ctx context.Context, userID, rewardID string) (*entities.UserReward, error) {
	var (
		reward     *entities.Reward
		redemption *entities.UserReward
		award      *pointsAward
	)
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		reward, err = tx.Rewards().GetByID(ctx, rewardID)
		if err != nil {
			return notFoundAs(err)
		}
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return notFoundAs(err)
		}

		if user.Points < reward.PointsCost {
			return apperrors.NewBusinessRuleError(MsgInsufficientPoints)
		}

		award, err = s.points.apply(ctx, tx, user.ID, -reward.PointsCost,
			entities.ActivityRewardRedemption, reward.Name)
		if err != nil {
			return err
		}

		redemption = &entities.UserReward{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			RewardID:   reward.ID,
			RedeemedAt: time.Now().UTC(),
			IsUsed:     false,
		}
		return tx.UserRewards().Create(ctx, redemption)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.rewardRedeemed(ctx, reward, redemption, award)
	return redemption, nil
}

func notFoundAs(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError(MsgRewardOrUserNotFound)
	}
	return err
}
