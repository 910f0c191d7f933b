package repositories

import "context"

// Store groups the repositories of one persistence backend
type Store interface {
	Users() UserRepository
	ParkingLots() ParkingLotRepository
	Reviews() ReviewRepository
	CommunityUpdates() CommunityUpdateRepository
	Rewards() RewardRepository
	UserRewards() UserRewardRepository
	PointsHistory() PointsHistoryRepository

	// WithinTx runs fn against a Store whose operations commit together or
	// not at all. Other callers cannot observe or interleave with the
	// intermediate state. Calling WithinTx on the Store passed to fn runs
	// fn in the same transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
