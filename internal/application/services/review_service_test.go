package services_test

import (
	"context"
	"testing"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	apperrors "github.com/parkshare/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_RecomputesRating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.createUser(t, "author", 0)
	lot := f.createLot(t, "Bãi xe Hồ Con Rùa", "")

	for _, rating := range []int{1, 2, 2} {
		_, err := f.reviews.CreateReview(ctx, &entities.CreateReviewInput{
			ParkingLotID: lot.ID,
			UserID:       author.ID,
			Rating:       rating,
			Comment:      strPtr("ok"),
		})
		require.NoError(t, err)
	}

	got, err := f.lots.GetParkingLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, "1.67", got.Rating)
	assert.Equal(t, 3, got.TotalReviews)

	reviews, err := f.reviews.ListByParkingLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	assert.Equal(t, 3*entities.PointsForReview, f.user(t, author.ID).Points)

	events := f.bus.Published(providers.EventChannelParkingUpdates)
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, entities.ParkingEventReviewAdded, last.EventType)
	assert.Equal(t, "1.67", last.Payload["rating"])
}

func TestReviewService_UnknownLotStillStored(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.createUser(t, "author", 0)

	review, err := f.reviews.CreateReview(ctx, &entities.CreateReviewInput{
		ParkingLotID: "no-such-lot",
		UserID:       author.ID,
		Rating:       4,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)

	assert.Equal(t, entities.PointsForReview, f.user(t, author.ID).Points)
	assert.Empty(t, f.bus.Published(providers.GetLotChannel("no-such-lot")))
}

func TestReviewService_RejectsOutOfRangeRating(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.createUser(t, "author", 0)
	lot := f.createLot(t, "Bãi xe Phạm Ngũ Lão", "")

	_, err := f.reviews.CreateReview(ctx, &entities.CreateReviewInput{
		ParkingLotID: lot.ID,
		UserID:       author.ID,
		Rating:       6,
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	got, err := f.lots.GetParkingLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.UnratedRating, got.Rating)
	assert.Equal(t, 0, f.user(t, author.ID).Points)
}
