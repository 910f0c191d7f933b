package repositories

import (
	"context"

	"github.com/parkshare/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create appends a review
	Create(ctx context.Context, review *entities.Review) error

	// ListByParkingLot returns a lot's reviews in creation order
	ListByParkingLot(ctx context.Context, parkingLotID string) ([]*entities.Review, error)
}

// CommunityUpdateRepository defines the interface for the community feed
type CommunityUpdateRepository interface {
	// Create appends an update to the feed
	Create(ctx context.Context, update *entities.CommunityUpdate) error

	// ListRecent returns up to limit updates, newest first
	ListRecent(ctx context.Context, limit int) ([]*entities.CommunityUpdate, error)
}

// RewardRepository defines the interface for the reward catalog
type RewardRepository interface {
	// Create adds a catalog entry
	Create(ctx context.Context, reward *entities.Reward) error

	// GetByID retrieves a reward by ID
	GetByID(ctx context.Context, id string) (*entities.Reward, error)

	// ListActive returns the rewards that can be redeemed
	ListActive(ctx context.Context) ([]*entities.Reward, error)
}

// UserRewardRepository defines the interface for redemption records
type UserRewardRepository interface {
	// Create appends a redemption
	Create(ctx context.Context, userReward *entities.UserReward) error

	// ListByUser returns a user's redemptions, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.UserReward, error)
}

// PointsHistoryRepository defines the interface for the points ledger
type PointsHistoryRepository interface {
	// Create appends a ledger entry
	Create(ctx context.Context, entry *entities.PointsHistory) error

	// ListByUser returns a user's ledger, newest first
	ListByUser(ctx context.Context, userID string) ([]*entities.PointsHistory, error)
}
