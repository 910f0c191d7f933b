package entities

import "time"

// Review is a user's 1-5 star rating of a parking lot
type Review struct {
	ID           string    `json:"id" db:"id"`
	ParkingLotID string    `json:"parkingLotId" db:"parking_lot_id"`
	UserID       string    `json:"userId" db:"user_id"`
	Rating       int       `json:"rating" db:"rating"`
	Comment      *string   `json:"comment" db:"comment"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// CommunityStatus is the crowd-reported availability of a lot
type CommunityStatus string

const (
	CommunityStatusAvailable  CommunityStatus = "available"
	CommunityStatusFull       CommunityStatus = "full"
	CommunityStatusAlmostFull CommunityStatus = "almost_full"
)

// CommunityUpdate is an append-only availability report. It never changes
// the spot counts of the lot it refers to.
type CommunityUpdate struct {
	ID           string          `json:"id" db:"id"`
	ParkingLotID string          `json:"parkingLotId" db:"parking_lot_id"`
	UserID       string          `json:"userId" db:"user_id"`
	Status       CommunityStatus `json:"status" db:"status"`
	Comment      *string         `json:"comment" db:"comment"`
	PointsEarned int             `json:"pointsEarned" db:"points_earned"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
}

// CommunityFeedItem is a community update with its lot and author resolved
type CommunityFeedItem struct {
	*CommunityUpdate
	ParkingLotName string `json:"parkingLotName,omitempty"`
	Username       string `json:"username,omitempty"`
}
