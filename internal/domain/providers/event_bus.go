package providers

import (
	"context"

	"github.com/parkshare/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to live
// parking events
type EventBus interface {
	// Publish publishes an event to all subscribers of channel
	Publish(ctx context.Context, channel string, event *entities.ParkingEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ParkingEvent, error)

	// Unsubscribe drops every subscriber of a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelParkingUpdates carries every parking event
	EventChannelParkingUpdates = "parking:updates"

	// EventChannelCommunityUpdates carries community reports only
	EventChannelCommunityUpdates = "parking:community"

	// EventChannelLotPrefix prefixes the per-lot channels
	EventChannelLotPrefix = "parking:lot:"
)

// GetLotChannel returns the channel name for a specific parking lot
func GetLotChannel(parkingLotID string) string {
	return EventChannelLotPrefix + parkingLotID
}
