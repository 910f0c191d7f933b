package entities

import "time"

// Activity tags a points ledger entry
type Activity string

const (
	ActivityStatusUpdate     Activity = "status_update"
	ActivityReview           Activity = "review"
	ActivityRewardRedemption Activity = "reward_redemption"
	ActivityLotRegistration  Activity = "lot_registration"
)

// Points tariff
const (
	PointsForCommunityUpdate = 10
	PointsForReview          = 5
	PointsForLotRegistration = 50
)

// PointsHistory is one ledger entry. Points holds the requested delta, which
// can differ from the balance change when the balance is clamped at zero.
type PointsHistory struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	Points      int       `json:"points" db:"points"`
	Activity    Activity  `json:"activity" db:"activity"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ActivityEventType names an entry on the activity stream
type ActivityEventType string

const (
	ActivityEventPointsAwarded  ActivityEventType = "points_awarded"
	ActivityEventRewardRedeemed ActivityEventType = "reward_redeemed"
)

// ActivityEvent is published to the activity stream after a points-affecting
// operation commits
type ActivityEvent struct {
	ID        string            `json:"id"`
	Type      ActivityEventType `json:"type"`
	UserID    string            `json:"userId"`
	Points    int               `json:"points"`
	Balance   int               `json:"balance"`
	Tier      MemberTier        `json:"memberTier"`
	Activity  Activity          `json:"activity,omitempty"`
	RewardID  string            `json:"rewardId,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
