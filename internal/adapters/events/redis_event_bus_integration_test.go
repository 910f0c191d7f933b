//go:build integration

package events

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/parkshare/backend/internal/infrastructure/clients/redis"
	"github.com/parkshare/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("TEST_REDIS_HOST") == "" {
		t.Skip("Skipping integration test: TEST_REDIS_HOST not set")
	}

	port, _ := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if port == 0 {
		port = 6379
	}
	client, err := redis.NewClient(context.Background(), &config.RedisConfig{
		Host:     os.Getenv("TEST_REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("TEST_REDIS_PASSWORD"),
	})
	require.NoError(t, err, "Failed to create redis client")
	t.Cleanup(func() { client.Close() })
	return client
}

func waitForEvent(t *testing.T, ch <-chan *entities.ParkingEvent) *entities.ParkingEvent {
	t.Helper()
	select {
	case event := <-ch:
		require.NotNil(t, event)
		return event
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestRedisEventBusFanoutIntegration(t *testing.T) {
	eventBus := NewRedisEventBus(newTestRedisClient(t))
	defer eventBus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1, err := eventBus.Subscribe(ctx, providers.EventChannelParkingUpdates)
	require.NoError(t, err)
	sub2, err := eventBus.Subscribe(ctx, providers.EventChannelParkingUpdates)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	event := testEvent()
	require.NoError(t, eventBus.Publish(context.Background(), providers.EventChannelParkingUpdates, event))

	received1 := waitForEvent(t, sub1)
	received2 := waitForEvent(t, sub2)

	assert.Equal(t, event.ID, received1.ID)
	assert.Equal(t, event.ID, received2.ID)
	assert.Equal(t, event.ParkingLotID, received1.ParkingLotID)
	assert.InDelta(t, 10.77, received1.Location.Latitude, 0.0001)
}

func TestRedisEventBusLotChannelIsolationIntegration(t *testing.T) {
	eventBus := NewRedisEventBus(newTestRedisClient(t))
	defer eventBus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	other, err := eventBus.Subscribe(ctx, providers.GetLotChannel("lot-2"))
	require.NoError(t, err)
	mine, err := eventBus.Subscribe(ctx, providers.GetLotChannel("lot-1"))
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, eventBus.Publish(context.Background(), providers.GetLotChannel("lot-1"), testEvent()))
	assert.Equal(t, "lot-1", waitForEvent(t, mine).ParkingLotID)

	select {
	case event := <-other:
		t.Fatalf("unexpected event on foreign channel: %+v", event)
	case <-time.After(200 * time.Millisecond):
	}
}
