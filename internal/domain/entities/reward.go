package entities

import "time"

// RewardCategory groups catalog rewards
type RewardCategory string

const (
	RewardCategoryTransport RewardCategory = "transport"
	RewardCategoryFood      RewardCategory = "food"
	RewardCategoryFuel      RewardCategory = "fuel"
	RewardCategoryOther     RewardCategory = "other"
)

// Reward is a catalog item that can be bought with points
type Reward struct {
	ID          string         `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	PointsCost  int            `json:"pointsCost" db:"points_cost"`
	Category    RewardCategory `json:"category" db:"category"`
	Icon        string         `json:"icon" db:"icon"`
	IsActive    bool           `json:"isActive" db:"is_active"`
}

// UserReward records one redemption
type UserReward struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"userId" db:"user_id"`
	RewardID   string    `json:"rewardId" db:"reward_id"`
	RedeemedAt time.Time `json:"redeemedAt" db:"redeemed_at"`
	IsUsed     bool      `json:"isUsed" db:"is_used"`
}
