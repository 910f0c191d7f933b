package events

import (
	"context"
	"testing"
	"time"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *entities.ParkingEvent {
	lot := &entities.ParkingLot{ID: "lot-1", Latitude: "10.77", Longitude: "106.70"}
	return entities.NewParkingEvent(lot, entities.ParkingEventLotUpdated, map[string]interface{}{"status": "active"})
}

func TestMemoryEventBus_FanOut(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, err := bus.Subscribe(ctx, providers.EventChannelParkingUpdates)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelParkingUpdates)
	require.NoError(t, err)
	other, err := bus.Subscribe(ctx, providers.GetLotChannel("lot-2"))
	require.NoError(t, err)

	event := testEvent()
	require.NoError(t, bus.Publish(ctx, providers.EventChannelParkingUpdates, event))

	for _, ch := range []<-chan *entities.ParkingEvent{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, event.ID, got.ID)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	select {
	case <-other:
		t.Fatal("event leaked to another channel")
	default:
	}
}

func TestMemoryEventBus_ContextCancelClosesSubscriber(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, providers.EventChannelCommunityUpdates)
	require.NoError(t, err)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelCommunityUpdates, testEvent()))
}

func TestMemoryEventBus_CloseRejectsNewSubscribers(t *testing.T) {
	bus := NewMemoryEventBus()
	require.NoError(t, bus.Close())

	ch, err := bus.Subscribe(context.Background(), providers.EventChannelParkingUpdates)
	require.NoError(t, err)
	_, ok := <-ch
	assert.False(t, ok)
}
