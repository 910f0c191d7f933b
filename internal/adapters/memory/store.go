// Package memory is the process-local persistence backend. All data lives in
// one dataset guarded by a single mutex; WithinTx holds that mutex for the
// whole callback and undoes every write if the callback fails.
package memory

import (
	"context"
	"sync"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
)

type dataset struct {
	users     map[string]*entities.User
	userOrder []string

	lots     map[string]*entities.ParkingLot
	lotOrder []string

	reviews     []*entities.Review
	updates     []*entities.CommunityUpdate
	userRewards []*entities.UserReward
	ledger      []*entities.PointsHistory

	rewards     map[string]*entities.Reward
	rewardOrder []string
}

func newDataset() *dataset {
	return &dataset{
		users:   make(map[string]*entities.User),
		lots:    make(map[string]*entities.ParkingLot),
		rewards: make(map[string]*entities.Reward),
	}
}

// journal collects undo steps for the writes of one transaction
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// view is a handle on the dataset. Outside a transaction every call takes
// the store mutex; inside one the mutex is already held and writes are
// journaled.
type view struct {
	data    *dataset
	lock    sync.Locker
	journal *journal
}

func (v *view) Users() repositories.UserRepository { return &userRepo{v} }
func (v *view) ParkingLots() repositories.ParkingLotRepository { return &lotRepo{v} }
func (v *view) Reviews() repositories.ReviewRepository { return &reviewRepo{v} }
func (v *view) CommunityUpdates() repositories.CommunityUpdateRepository { return &updateRepo{v} }
func (v *view) Rewards() repositories.RewardRepository { return &rewardRepo{v} }
func (v *view) UserRewards() repositories.UserRewardRepository { return &userRewardRepo{v} }
func (v *view) PointsHistory() repositories.PointsHistoryRepository { return &ledgerRepo{v} }

// Store is the in-memory repositories.Store
type Store struct {
	mu sync.Mutex
	view
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{}
	s.view = view{data: newDataset(), lock: &s.mu}
	return s
}

// WithinTx implements repositories.Store
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStore{view{data: s.data, lock: noopLocker{}, journal: &journal{}}}
	if err := fn(tx); err != nil {
		tx.journal.rollback()
		return err
	}
	return nil
}

type txStore struct {
	view
}

func (t *txStore) WithinTx(_ context.Context, fn func(tx repositories.Store) error) error {
	return fn(t)
}

var (
	_ repositories.Store = (*Store)(nil)
	_ repositories.Store = (*txStore)(nil)
)
