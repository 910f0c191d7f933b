package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/domain/validation"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

// DefaultCommunityFeedLimit is used when no positive limit is requested
const DefaultCommunityFeedLimit = 50

// CommunityService handles the crowd-sourced availability feed
type CommunityService struct {
	store      repositories.Store
	points     *PointsService
	dispatcher *Dispatcher
}

// NewCommunityService creates a new community service
func NewCommunityService(store repositories.Store, points *PointsService, dispatcher *Dispatcher) *CommunityService {
	return &CommunityService{store: store, points: points, dispatcher: dispatcher}
}

// CreateUpdate appends a report worth a fixed 10 points and credits the
// reporter in the same transaction. The lot's spot counts are not touched.
func (s *CommunityService) CreateUpdate(ctx context.Context, input *entities.CreateCommunityUpdateInput) (*entities.CommunityUpdate, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	update := &entities.CommunityUpdate{
		ID:           uuid.New().String(),
		ParkingLotID: input.ParkingLotID,
		UserID:       input.UserID,
		Status:       input.Status,
		Comment:      input.Comment,
		PointsEarned: entities.PointsForCommunityUpdate,
		CreatedAt:    time.Now().UTC(),
	}

	var (
		lot   *entities.ParkingLot
		award *pointsAward
	)
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.CommunityUpdates().Create(ctx, update); err != nil {
			return err
		}

		var err error
		lot, err = tx.ParkingLots().GetByID(ctx, update.ParkingLotID)
		if errors.Is(err, apperrors.ErrNotFound) {
			lot, err = nil, nil
		}
		if err != nil {
			return err
		}

		award, err = s.points.apply(ctx, tx, update.UserID, entities.PointsForCommunityUpdate,
			entities.ActivityStatusUpdate, "Cập nhật tình trạng bãi xe")
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.communityUpdated(ctx, lot, update)
	s.dispatcher.pointsAwarded(ctx, award)
	return update, nil
}

// Recent returns up to limit updates, newest first
func (s *CommunityService) Recent(ctx context.Context, limit int) ([]*entities.CommunityUpdate, error) {
	if limit <= 0 {
		limit = DefaultCommunityFeedLimit
	}
	return s.store.CommunityUpdates().ListRecent(ctx, limit)
}
