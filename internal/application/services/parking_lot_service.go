package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/domain/validation"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

const defaultSuggestLimit = 5

// ParkingLotService handles lot registration, listing and search
type ParkingLotService struct {
	store      repositories.Store
	index      repositories.ParkingLotIndex
	points     *PointsService
	dispatcher *Dispatcher
}

// NewParkingLotService creates a new parking lot service. index may be nil.
func NewParkingLotService(store repositories.Store, index repositories.ParkingLotIndex, points *PointsService, dispatcher *Dispatcher) *ParkingLotService {
	return &ParkingLotService{
		store:      store,
		index:      index,
		points:     points,
		dispatcher: dispatcher,
	}
}

// CreateParkingLot normalizes and validates the payload, stores the lot and
// credits the owner with the registration bonus in the same transaction
func (s *ParkingLotService) CreateParkingLot(ctx context.Context, input *entities.CreateParkingLotInput) (*entities.ParkingLot, error) {
	input.Normalize()
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	lot := input.ToParkingLot()
	lot.ID = uuid.New().String()
	lot.CreatedAt = time.Now().UTC()

	var award *pointsAward
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.ParkingLots().Create(ctx, lot); err != nil {
			return err
		}
		var err error
		award, err = s.points.apply(ctx, tx, lot.OwnerID, entities.PointsForLotRegistration,
			entities.ActivityLotRegistration, "Đăng ký bãi xe "+lot.Name)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.lotChanged(ctx, lot, entities.ParkingEventLotRegistered, map[string]interface{}{"name": lot.Name})
	s.dispatcher.pointsAwarded(ctx, award)
	return lot, nil
}

// GetParkingLot retrieves a lot by ID
func (s *ParkingLotService) GetParkingLot(ctx context.Context, id string) (*entities.ParkingLot, error) {
	return s.store.ParkingLots().GetByID(ctx, id)
}

// ListParkingLots returns every lot
func (s *ParkingLotService) ListParkingLots(ctx context.Context) ([]*entities.ParkingLot, error) {
	return s.store.ParkingLots().List(ctx)
}

// ListByOwner returns the lots registered by a user
func (s *ParkingLotService) ListByOwner(ctx context.Context, ownerID string) ([]*entities.ParkingLot, error) {
	return s.store.ParkingLots().ListByOwner(ctx, ownerID)
}

// Search applies the filters conjunctively to active lots
func (s *ParkingLotService) Search(ctx context.Context, filters entities.SearchFilters) ([]*entities.ParkingLot, error) {
	return s.store.ParkingLots().Search(ctx, filters)
}

// UpdateParkingLot merges mutable fields into an existing lot
func (s *ParkingLotService) UpdateParkingLot(ctx context.Context, id string, patch entities.ParkingLotPatch) (*entities.ParkingLot, error) {
	var updated *entities.ParkingLot
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		lot, err := tx.ParkingLots().GetByID(ctx, id)
		if err != nil {
			return err
		}
		lot.Apply(patch)
		if err := tx.ParkingLots().Update(ctx, lot); err != nil {
			return err
		}
		updated = lot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.lotChanged(ctx, updated, entities.ParkingEventLotUpdated, map[string]interface{}{
		"status":                 updated.Status,
		"currentMotorcycleSpots": updated.CurrentMotorcycleSpots,
		"currentCarSpots":        updated.CurrentCarSpots,
	})
	return updated, nil
}

// Suggest returns type-ahead matches from the search index, falling back to
// a store substring search when no index is configured or it fails
func (s *ParkingLotService) Suggest(ctx context.Context, query string, limit int) ([]*entities.LotSuggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestLimit
	}

	if s.index != nil {
		suggestions, err := s.index.Suggest(ctx, query, limit)
		if err == nil {
			return suggestions, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("search index unavailable, falling back to store")
	}

	lots, err := s.store.ParkingLots().Search(ctx, entities.SearchFilters{Search: query})
	if err != nil {
		return nil, err
	}
	if len(lots) > limit {
		lots = lots[:limit]
	}

	out := make([]*entities.LotSuggestion, 0, len(lots))
	for _, lot := range lots {
		out = append(out, &entities.LotSuggestion{
			ID:      lot.ID,
			Name:    lot.Name,
			Address: lot.Address,
			Rating:  lot.RatingValue(),
		})
	}
	return out, nil
}
