package entities

import (
	"time"

	"github.com/google/uuid"
)

// ParkingEventType represents the type of a live parking event
type ParkingEventType string

const (
	ParkingEventCommunityUpdate ParkingEventType = "community_update"
	ParkingEventReviewAdded     ParkingEventType = "review_added"
	ParkingEventLotRegistered   ParkingEventType = "lot_registered"
	ParkingEventLotUpdated      ParkingEventType = "lot_updated"
)

// ParkingEvent is a real-time notification about a parking lot, fanned out
// to stream subscribers
type ParkingEvent struct {
	ID           string                 `json:"id"`
	ParkingLotID string                 `json:"parkingLotId"`
	EventType    ParkingEventType       `json:"eventType"`
	Timestamp    time.Time              `json:"timestamp"`
	Location     Location               `json:"location"`
	Payload      map[string]interface{} `json:"payload"`
}

// NewParkingEvent creates an event for the given lot
func NewParkingEvent(lot *ParkingLot, eventType ParkingEventType, payload map[string]interface{}) *ParkingEvent {
	return &ParkingEvent{
		ID:           uuid.NewString(),
		ParkingLotID: lot.ID,
		EventType:    eventType,
		Timestamp:    time.Now(),
		Location:     lot.Location(),
		Payload:      payload,
	}
}
