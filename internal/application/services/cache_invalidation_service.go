package services

import (
	"context"
	"fmt"
	"time"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

// Cache key prefixes shared with the HTTP cache middleware
const (
	HTTPCachePrefix        = "http:cache:"
	ParkingLotCachePattern = HTTPCachePrefix + "/api/parking-lots*"
	RewardCachePattern     = HTTPCachePrefix + "/api/rewards*"
)

// CacheInvalidationService drops cached lot responses when parking events
// arrive, including events published by other instances
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelParkingUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to parking updates: %w", err)
	}

	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ParkingEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.ParkingEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if event.EventType == entities.ParkingEventCommunityUpdate {
		// community reports leave lot documents untouched
		return
	}

	if err := s.InvalidateParkingLots(ctx); err != nil {
		observability.GetLogger().Warn().Err(err).
			Str("event_id", event.ID).
			Str("parking_lot_id", event.ParkingLotID).
			Msg("failed to invalidate parking lot cache")
	}
}

// InvalidateParkingLots drops every cached lot listing, search, suggestion
// and detail response. Ratings feed into search filters, so a single lot
// change can alter any of them.
func (s *CacheInvalidationService) InvalidateParkingLots(ctx context.Context) error {
	if s == nil || s.cache == nil {
		return nil
	}
	if err := s.cache.DeletePattern(ctx, ParkingLotCachePattern); err != nil {
		return fmt.Errorf("failed to invalidate pattern %s: %w", ParkingLotCachePattern, err)
	}
	return nil
}

// InvalidateRewards drops the cached reward catalog
func (s *CacheInvalidationService) InvalidateRewards(ctx context.Context) error {
	if s == nil || s.cache == nil {
		return nil
	}
	if err := s.cache.DeletePattern(ctx, RewardCachePattern); err != nil {
		return fmt.Errorf("failed to invalidate pattern %s: %w", RewardCachePattern, err)
	}
	return nil
}
