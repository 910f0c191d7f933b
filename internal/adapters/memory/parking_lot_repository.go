package memory

import (
	"context"

	"github.com/parkshare/backend/internal/domain/entities"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

type lotRepo struct {
	*view
}

func (r *lotRepo) Create(_ context.Context, lot *entities.ParkingLot) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, exists := r.data.lots[lot.ID]; exists {
		return apperrors.NewConflictError("parking lot already exists")
	}
	r.data.lots[lot.ID] = cloneLot(lot)
	r.data.lotOrder = append(r.data.lotOrder, lot.ID)

	id, n := lot.ID, len(r.data.lotOrder)-1
	r.journal.record(func() {
		delete(r.data.lots, id)
		r.data.lotOrder = r.data.lotOrder[:n]
	})
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, id string) (*entities.ParkingLot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if lot, ok := r.data.lots[id]; ok {
		return cloneLot(lot), nil
	}
	return nil, apperrors.NewNotFoundError("parking lot not found")
}

func (r *lotRepo) GetByIDs(_ context.Context, ids []string) ([]*entities.ParkingLot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]*entities.ParkingLot, 0, len(ids))
	for _, id := range ids {
		if lot, ok := r.data.lots[id]; ok {
			out = append(out, cloneLot(lot))
		}
	}
	return out, nil
}

func (r *lotRepo) List(_ context.Context) ([]*entities.ParkingLot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.all(), nil
}

func (r *lotRepo) ListByOwner(_ context.Context, ownerID string) ([]*entities.ParkingLot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var out []*entities.ParkingLot
	for _, lot := range r.all() {
		if lot.OwnerID == ownerID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *lotRepo) Search(_ context.Context, filters entities.SearchFilters) ([]*entities.ParkingLot, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return filters.Apply(r.all()), nil
}

func (r *lotRepo) Update(_ context.Context, lot *entities.ParkingLot) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	prev, ok := r.data.lots[lot.ID]
	if !ok {
		return apperrors.NewNotFoundError("parking lot not found")
	}
	r.data.lots[lot.ID] = cloneLot(lot)
	r.journal.record(func() { r.data.lots[prev.ID] = prev })
	return nil
}

// all copies every lot in creation order; the caller holds the lock
func (r *lotRepo) all() []*entities.ParkingLot {
	out := make([]*entities.ParkingLot, 0, len(r.data.lotOrder))
	for _, id := range r.data.lotOrder {
		out = append(out, cloneLot(r.data.lots[id]))
	}
	return out
}
