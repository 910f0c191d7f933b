package seed_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parkshare/backend/internal/adapters/memory"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndex struct {
	ids []string
	err error
}

func (r *recordingIndex) Index(ctx context.Context, lot *entities.ParkingLot) error {
	r.ids = append(r.ids, lot.ID)
	return r.err
}

func (r *recordingIndex) Suggest(ctx context.Context, query string, limit int) ([]*entities.LotSuggestion, error) {
	return nil, nil
}

func TestRewardsCatalog(t *testing.T) {
	rewards := seed.Rewards()
	require.Len(t, rewards, 3)

	assert.Equal(t, "Voucher Grab 20k", rewards[0].Name)
	assert.Equal(t, 100, rewards[0].PointsCost)
	assert.Equal(t, entities.RewardCategoryTransport, rewards[0].Category)
	assert.Equal(t, 150, rewards[1].PointsCost)
	assert.Equal(t, entities.RewardCategoryFood, rewards[1].Category)
	assert.Equal(t, 300, rewards[2].PointsCost)
	assert.Equal(t, entities.RewardCategoryFuel, rewards[2].Category)
	for _, reward := range rewards {
		assert.True(t, reward.IsActive)
	}
}

func TestParkingLotsStartUnrated(t *testing.T) {
	lots := seed.ParkingLots(time.Now())
	require.Len(t, lots, 20)

	for _, lot := range lots {
		assert.Equal(t, entities.UnratedRating, lot.Rating, lot.Name)
		assert.Zero(t, lot.TotalReviews, lot.Name)
		assert.LessOrEqual(t, lot.CurrentMotorcycleSpots, lot.MotorcycleCapacity, lot.Name)
		assert.LessOrEqual(t, lot.CurrentCarSpots, lot.CarCapacity, lot.Name)
		assert.Equal(t, entities.LotStatusActive, lot.Status)
		require.NotNil(t, lot.OperatingHours)
	}
	assert.True(t, lots[0].CreatedAt.Before(lots[19].CreatedAt))
}

func TestLoadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	index := &recordingIndex{}

	result, err := seed.Load(ctx, store, index)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rewards)
	assert.Equal(t, 20, result.ParkingLots)
	assert.Len(t, index.ids, 20)

	result, err = seed.Load(ctx, store, index)
	require.NoError(t, err)
	assert.Zero(t, result.Rewards)
	assert.Zero(t, result.ParkingLots)

	lots, err := store.ParkingLots().List(ctx)
	require.NoError(t, err)
	assert.Len(t, lots, 20)
	assert.Equal(t, "Bãi xe Nguyễn Huệ", lots[0].Name)

	rewards, err := store.Rewards().ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, rewards, 3)
}

func TestLoadToleratesIndexFailures(t *testing.T) {
	store := memory.NewStore()

	result, err := seed.Load(context.Background(), store, &recordingIndex{err: errors.New("typesense down")})
	require.NoError(t, err)
	assert.Equal(t, 20, result.ParkingLots)
}

func TestLoadWithoutIndex(t *testing.T) {
	result, err := seed.Load(context.Background(), memory.NewStore(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rewards)
}

type recordingInvalidator struct {
	calls []string
	err   error
}

func (r *recordingInvalidator) InvalidateRewards(ctx context.Context) error {
	r.calls = append(r.calls, "rewards")
	return r.err
}

func (r *recordingInvalidator) InvalidateParkingLots(ctx context.Context) error {
	r.calls = append(r.calls, "parking_lots")
	return r.err
}

func TestRefreshCaches(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first, err := seed.Load(ctx, store, nil)
	require.NoError(t, err)
	cache := &recordingInvalidator{}
	require.NoError(t, seed.RefreshCaches(ctx, cache, first))
	assert.Equal(t, []string{"rewards", "parking_lots"}, cache.calls)

	second, err := seed.Load(ctx, store, nil)
	require.NoError(t, err)
	cache = &recordingInvalidator{}
	require.NoError(t, seed.RefreshCaches(ctx, cache, second))
	assert.Empty(t, cache.calls)

	cache = &recordingInvalidator{err: errors.New("redis down")}
	assert.Error(t, seed.RefreshCaches(ctx, cache, first))

	assert.NoError(t, seed.RefreshCaches(ctx, nil, first))
}
