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

// ReviewService handles lot reviews and the rating aggregate
type ReviewService struct {
	store      repositories.Store
	points     *PointsService
	dispatcher *Dispatcher
}

// NewReviewService creates a new review service
func NewReviewService(store repositories.Store, points *PointsService, dispatcher *Dispatcher) *ReviewService {
	return &ReviewService{store: store, points: points, dispatcher: dispatcher}
}

// CreateReview stores a review, recomputes the lot's rating and review
// count, and credits the author. A review of an unknown lot is still stored;
// only the aggregate step is skipped.
func (s *ReviewService) CreateReview(ctx context.Context, input *entities.CreateReviewInput) (*entities.Review, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	review := &entities.Review{
		ID:           uuid.New().String(),
		ParkingLotID: input.ParkingLotID,
		UserID:       input.UserID,
		Rating:       input.Rating,
		Comment:      input.Comment,
		CreatedAt:    time.Now().UTC(),
	}

	var (
		lot   *entities.ParkingLot
		award *pointsAward
	)
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Reviews().Create(ctx, review); err != nil {
			return err
		}

		var err error
		lot, err = s.recomputeRating(ctx, tx, review.ParkingLotID)
		if err != nil {
			return err
		}

		award, err = s.points.apply(ctx, tx, review.UserID, entities.PointsForReview,
			entities.ActivityReview, "Đánh giá bãi xe")
		return err
	})
	if err != nil {
		return nil, err
	}

	if lot != nil {
		s.dispatcher.lotChanged(ctx, lot, entities.ParkingEventReviewAdded, map[string]interface{}{
			"reviewId":     review.ID,
			"rating":       lot.Rating,
			"totalReviews": lot.TotalReviews,
		})
	}
	s.dispatcher.pointsAwarded(ctx, award)
	return review, nil
}

// ListByParkingLot returns a lot's reviews
func (s *ReviewService) ListByParkingLot(ctx context.Context, parkingLotID string) ([]*entities.Review, error) {
	return s.store.Reviews().ListByParkingLot(ctx, parkingLotID)
}

// recomputeRating returns nil when the lot does not exist
func (s *ReviewService) recomputeRating(ctx context.Context, tx repositories.Store, parkingLotID string) (*entities.ParkingLot, error) {
	lot, err := tx.ParkingLots().GetByID(ctx, parkingLotID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	reviews, err := tx.Reviews().ListByParkingLot(ctx, parkingLotID)
	if err != nil {
		return nil, err
	}
	scores := make([]int, 0, len(reviews))
	for _, r := range reviews {
		scores = append(scores, r.Rating)
	}

	lot.SetRatingFrom(scores)
	if err := tx.ParkingLots().Update(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}
