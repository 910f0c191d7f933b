package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

// Dispatcher fans committed changes out to the optional infrastructure:
// live event streams, the search index, the activity stream and metrics.
// Every target may be nil. Failures are logged and never reach the caller,
// since the store write they follow has already committed.
type Dispatcher struct {
	eventBus providers.EventBus
	activity providers.ActivityPublisher
	index    repositories.ParkingLotIndex
	metrics  *observability.Metrics
	cache    *CacheInvalidationService
}

// NewDispatcher creates a dispatcher; pass nil for any missing target
func NewDispatcher(eventBus providers.EventBus, activity providers.ActivityPublisher, index repositories.ParkingLotIndex, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		eventBus: eventBus,
		activity: activity,
		index:    index,
		metrics:  metrics,
	}
}

// WithCacheInvalidation makes lot changes drop cached HTTP responses before
// the write call returns
func (d *Dispatcher) WithCacheInvalidation(cache *CacheInvalidationService) *Dispatcher {
	d.cache = cache
	return d
}

// pointsAward is the committed result of one ledger write
type pointsAward struct {
	user  *entities.User
	entry *entities.PointsHistory
}

func (d *Dispatcher) lotChanged(ctx context.Context, lot *entities.ParkingLot, eventType entities.ParkingEventType, payload map[string]interface{}) {
	if d == nil {
		return
	}
	if err := d.cache.InvalidateParkingLots(ctx); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("parking_lot_id", lot.ID).Msg("failed to invalidate parking lot cache")
	}
	if d.index != nil {
		if err := d.index.Index(ctx, lot); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("parking_lot_id", lot.ID).Msg("failed to index parking lot")
		}
	}
	d.publish(ctx, entities.NewParkingEvent(lot, eventType, payload),
		providers.EventChannelParkingUpdates, providers.GetLotChannel(lot.ID))
}

func (d *Dispatcher) communityUpdated(ctx context.Context, lot *entities.ParkingLot, update *entities.CommunityUpdate) {
	if d == nil {
		return
	}
	if lot == nil {
		lot = &entities.ParkingLot{ID: update.ParkingLotID}
	}
	payload := map[string]interface{}{
		"updateId": update.ID,
		"userId":   update.UserID,
		"status":   update.Status,
	}
	if update.Comment != nil {
		payload["comment"] = *update.Comment
	}
	d.publish(ctx, entities.NewParkingEvent(lot, entities.ParkingEventCommunityUpdate, payload),
		providers.EventChannelCommunityUpdates, providers.EventChannelParkingUpdates, providers.GetLotChannel(lot.ID))
}

func (d *Dispatcher) publish(ctx context.Context, event *entities.ParkingEvent, channels ...string) {
	if d.eventBus == nil {
		return
	}
	for _, channel := range channels {
		if err := d.eventBus.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("channel", channel).Msg("failed to publish parking event")
		}
	}
}

func (d *Dispatcher) pointsAwarded(ctx context.Context, award *pointsAward) {
	if d == nil || award == nil {
		return
	}
	observability.RecordPoints(ctx, d.metrics, string(award.entry.Activity), award.entry.Points)
	d.emit(ctx, &entities.ActivityEvent{
		ID:        uuid.NewString(),
		Type:      entities.ActivityEventPointsAwarded,
		UserID:    award.user.ID,
		Points:    award.entry.Points,
		Balance:   award.user.Points,
		Tier:      award.user.MemberTier,
		Activity:  award.entry.Activity,
		Timestamp: award.entry.CreatedAt,
	})
}

func (d *Dispatcher) rewardRedeemed(ctx context.Context, reward *entities.Reward, redemption *entities.UserReward, award *pointsAward) {
	if d == nil {
		return
	}
	observability.RecordRedemption(ctx, d.metrics, string(reward.Category))
	d.pointsAwarded(ctx, award)

	event := &entities.ActivityEvent{
		ID:        uuid.NewString(),
		Type:      entities.ActivityEventRewardRedeemed,
		UserID:    redemption.UserID,
		Points:    -reward.PointsCost,
		RewardID:  reward.ID,
		Timestamp: redemption.RedeemedAt,
	}
	if award != nil {
		event.Balance = award.user.Points
		event.Tier = award.user.MemberTier
	}
	d.emit(ctx, event)
}

func (d *Dispatcher) emit(ctx context.Context, event *entities.ActivityEvent) {
	if d.activity == nil {
		return
	}
	if err := d.activity.Publish(ctx, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("user_id", event.UserID).
			Str("event_type", string(event.Type)).
			Msg("failed to publish activity event")
	}
}
