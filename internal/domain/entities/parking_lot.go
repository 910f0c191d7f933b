package entities

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// LotStatus is the listing state of a parking lot
type LotStatus string

const (
	LotStatusActive   LotStatus = "active"
	LotStatusInactive LotStatus = "inactive"
	LotStatusPending  LotStatus = "pending"
)

// AnonymousOwner owns lots registered without an owner id
const AnonymousOwner = "anonymous"

// UnratedRating is the rating of a lot without reviews
const UnratedRating = "0"

// KnownFacilities lists the facility tags a lot may carry
var KnownFacilities = []string{
	"covered", "security", "camera", "toilet", "water", "wifi",
	"ev_charging", "valet", "elevator",
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OperatingHours describes when a lot is open
type OperatingHours struct {
	OpenTime  string `json:"openTime" validate:"required"`
	CloseTime string `json:"closeTime" validate:"required"`
	Is24h     bool   `json:"is24h"`
}

// ParkingLot is a physical parking facility with separate motorcycle and
// car capacity. Prices are whole VND amounts.
type ParkingLot struct {
	ID                     string          `json:"id" db:"id"`
	Name                   string          `json:"name" db:"name"`
	Address                string          `json:"address" db:"address"`
	Latitude               string          `json:"latitude" db:"latitude"`
	Longitude              string          `json:"longitude" db:"longitude"`
	OwnerID                string          `json:"ownerId" db:"owner_id"`
	MotorcycleCapacity     int             `json:"motorcycleCapacity" db:"motorcycle_capacity"`
	CarCapacity            int             `json:"carCapacity" db:"car_capacity"`
	MotorcyclePrice        int             `json:"motorcyclePrice" db:"motorcycle_price"`
	CarPrice               int             `json:"carPrice" db:"car_price"`
	CurrentMotorcycleSpots int             `json:"currentMotorcycleSpots" db:"current_motorcycle_spots"`
	CurrentCarSpots        int             `json:"currentCarSpots" db:"current_car_spots"`
	Facilities             []string        `json:"facilities" db:"-"`
	OperatingHours         *OperatingHours `json:"operatingHours" db:"-"`
	Rating                 string          `json:"rating" db:"rating"`
	TotalReviews           int             `json:"totalReviews" db:"total_reviews"`
	Status                 LotStatus       `json:"status" db:"status"`
	Description            *string         `json:"description" db:"description"`
	CreatedAt              time.Time       `json:"createdAt" db:"created_at"`
}

// Location parses the decimal coordinate strings. Unparseable values read as 0.
func (p *ParkingLot) Location() Location {
	return Location{
		Latitude:  parseDecimal(p.Latitude),
		Longitude: parseDecimal(p.Longitude),
	}
}

// RatingValue parses the rating string, treating garbage as 0
func (p *ParkingLot) RatingValue() float64 {
	return parseDecimal(p.Rating)
}

// HasAvailability reports whether any motorcycle or car spot is free
func (p *ParkingLot) HasAvailability() bool {
	return p.CurrentMotorcycleSpots > 0 || p.CurrentCarSpots > 0
}

// SetRatingFrom recomputes rating and totalReviews from the given review scores
func (p *ParkingLot) SetRatingFrom(scores []int) {
	p.TotalReviews = len(scores)
	if len(scores) == 0 {
		p.Rating = UnratedRating
		return
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	p.Rating = FormatRating(float64(sum) / float64(len(scores)))
}

// Apply merges the non-nil fields of a lot patch
func (p *ParkingLot) Apply(patch ParkingLotPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Address != nil {
		p.Address = *patch.Address
	}
	if patch.Latitude != nil {
		p.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		p.Longitude = *patch.Longitude
	}
	if patch.MotorcycleCapacity != nil {
		p.MotorcycleCapacity = *patch.MotorcycleCapacity
	}
	if patch.CarCapacity != nil {
		p.CarCapacity = *patch.CarCapacity
	}
	if patch.MotorcyclePrice != nil {
		p.MotorcyclePrice = *patch.MotorcyclePrice
	}
	if patch.CarPrice != nil {
		p.CarPrice = *patch.CarPrice
	}
	if patch.CurrentMotorcycleSpots != nil {
		p.CurrentMotorcycleSpots = *patch.CurrentMotorcycleSpots
	}
	if patch.CurrentCarSpots != nil {
		p.CurrentCarSpots = *patch.CurrentCarSpots
	}
	if patch.Facilities != nil {
		p.Facilities = normalizeFacilities(*patch.Facilities)
	}
	if patch.OperatingHours != nil {
		p.OperatingHours = patch.OperatingHours
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
}

// FormatRating formats a mean rating to two decimals, rounding halves up
func FormatRating(mean float64) string {
	return strconv.FormatFloat(math.Round(mean*100)/100, 'f', 2, 64)
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
