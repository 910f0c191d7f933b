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

// PointsService owns the points ledger and the tier rule
type PointsService struct {
	store      repositories.Store
	dispatcher *Dispatcher
}

// NewPointsService creates a new points service
func NewPointsService(store repositories.Store, dispatcher *Dispatcher) *PointsService {
	return &PointsService{store: store, dispatcher: dispatcher}
}

// AddPoints applies delta to a user's balance, clamped at zero, recomputes
// the tier and appends the raw delta to the ledger. Unknown users are
// silently ignored.
func (s *PointsService) AddPoints(ctx context.Context, userID string, delta int, activity entities.Activity, description string) error {
	var award *pointsAward
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		award, err = s.apply(ctx, tx, userID, delta, activity, description)
		return err
	})
	if err != nil {
		return err
	}

	s.dispatcher.pointsAwarded(ctx, award)
	return nil
}

// History returns a user's ledger, newest first
func (s *PointsService) History(ctx context.Context, userID string) ([]*entities.PointsHistory, error) {
	return s.store.PointsHistory().ListByUser(ctx, userID)
}

// apply runs inside the caller's transaction. It returns nil for unknown users.
func (s *PointsService) apply(ctx context.Context, tx repositories.Store, userID string, delta int, activity entities.Activity, description string) (*pointsAward, error) {
	user, err := tx.Users().GetByID(ctx, userID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.ApplyPoints(delta)
	if err := tx.Users().Update(ctx, user); err != nil {
		return nil, err
	}

	entry := &entities.PointsHistory{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Points:      delta,
		Activity:    activity,
		Description: optionalString(description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.PointsHistory().Create(ctx, entry); err != nil {
		return nil, err
	}

	return &pointsAward{user: user, entry: entry}, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
