package entities

import (
	"time"
)

// VehicleType is the kind of vehicle a user drives or a lot accepts
type VehicleType string

const (
	VehicleTypeMotorcycle VehicleType = "motorcycle"
	VehicleTypeCar        VehicleType = "car"
	VehicleTypeBoth       VehicleType = "both"
)

// MemberTier is the loyalty level derived from a points balance
type MemberTier string

const (
	MemberTierBronze MemberTier = "bronze"
	MemberTierSilver MemberTier = "silver"
	MemberTierGold   MemberTier = "gold"
)

// Tier thresholds, inclusive.
const (
	SilverTierThreshold = 500
	GoldTierThreshold   = 1500
)

// TierForPoints returns the member tier for a points balance
func TierForPoints(points int) MemberTier {
	switch {
	case points >= GoldTierThreshold:
		return MemberTierGold
	case points >= SilverTierThreshold:
		return MemberTierSilver
	default:
		return MemberTierBronze
	}
}

// User represents a registered driver
type User struct {
	ID          string      `json:"id" db:"id"`
	Username    string      `json:"username" db:"username"`
	Email       string      `json:"email" db:"email"`
	Password    string      `json:"-" db:"password"`
	FullName    string      `json:"fullName" db:"full_name"`
	Phone       *string     `json:"phone" db:"phone"`
	VehicleType VehicleType `json:"vehicleType" db:"vehicle_type"`
	Points      int         `json:"points" db:"points"`
	MemberTier  MemberTier  `json:"memberTier" db:"member_tier"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
}

// ApplyPoints sets the balance to max(0, points+delta) and recomputes the
// tier. It returns the stored balance.
func (u *User) ApplyPoints(delta int) int {
	u.Points = max(0, u.Points+delta)
	u.MemberTier = TierForPoints(u.Points)
	return u.Points
}

// Apply merges the non-nil fields of a profile patch
func (u *User) Apply(p UserPatch) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = p.Phone
	}
	if p.VehicleType != nil {
		u.VehicleType = *p.VehicleType
	}
}
