package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/parkshare/backend/internal/adapters/memory"
	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/stretchr/testify/require"
)

// MockCacheProvider for testing
type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
}

func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// DeletePattern supports trailing-wildcard patterns only
func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if strings.HasPrefix(key, strings.TrimSuffix(pattern, "*")) {
			delete(m.data, key)
			m.deleted = append(m.deleted, key)
		}
	}
	return nil
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheProvider) Has(key string) bool {
	ok, _ := m.Exists(context.Background(), key)
	return ok
}

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.ParkingEvent
	published   map[string][]*entities.ParkingEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.ParkingEvent),
		published:   make(map[string][]*entities.ParkingEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ParkingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[channel] = append(m.published[channel], event)
	for _, ch := range m.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ParkingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.ParkingEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers[channel] {
		close(ch)
	}
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, channels := range m.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	m.subscribers = make(map[string][]chan *entities.ParkingEvent)
	return nil
}

func (m *MockEventBus) Published(channel string) []*entities.ParkingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.ParkingEvent(nil), m.published[channel]...)
}

func (m *MockEventBus) SubscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

// recordingPublisher captures activity events
type recordingPublisher struct {
	mu     sync.Mutex
	events []*entities.ActivityEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event *entities.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []*entities.ActivityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*entities.ActivityEvent(nil), p.events...)
}

// stubIndex is a ParkingLotIndex with canned answers
type stubIndex struct {
	mu          sync.Mutex
	indexed     []string
	suggestions []*entities.LotSuggestion
	err         error
}

func (s *stubIndex) Index(ctx context.Context, lot *entities.ParkingLot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed = append(s.indexed, lot.ID)
	return nil
}

func (s *stubIndex) Suggest(ctx context.Context, query string, limit int) ([]*entities.LotSuggestion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.suggestions, nil
}

type fixture struct {
	store     *memory.Store
	bus       *MockEventBus
	activity  *recordingPublisher
	index     *stubIndex
	points    *services.PointsService
	users     *services.UserService
	lots      *services.ParkingLotService
	reviews   *services.ReviewService
	community *services.CommunityService
	rewards   *services.RewardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store:    memory.NewStore(),
		bus:      NewMockEventBus(),
		activity: &recordingPublisher{},
		index:    &stubIndex{},
	}
	dispatcher := services.NewDispatcher(f.bus, f.activity, f.index, nil)
	f.points = services.NewPointsService(f.store, dispatcher)
	f.users = services.NewUserService(f.store)
	f.lots = services.NewParkingLotService(f.store, f.index, f.points, dispatcher)
	f.reviews = services.NewReviewService(f.store, f.points, dispatcher)
	f.community = services.NewCommunityService(f.store, f.points, dispatcher)
	f.rewards = services.NewRewardService(f.store, f.points, dispatcher)
	return f
}

func (f *fixture) createUser(t *testing.T, username string, points int) *entities.User {
	t.Helper()
	ctx := context.Background()

	user, err := f.users.CreateUser(ctx, &entities.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret",
		FullName: "Nguyen " + username,
	})
	require.NoError(t, err)

	if points > 0 {
		user.ApplyPoints(points)
		require.NoError(t, f.store.Users().Update(ctx, user))
	}
	return user
}

func (f *fixture) createLot(t *testing.T, name, ownerID string) *entities.ParkingLot {
	t.Helper()

	lot, err := f.lots.CreateParkingLot(context.Background(), lotInput(name, ownerID))
	require.NoError(t, err)
	return lot
}

func (f *fixture) user(t *testing.T, id string) *entities.User {
	t.Helper()
	user, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func lotInput(name, ownerID string) *entities.CreateParkingLotInput {
	return &entities.CreateParkingLotInput{
		Name:               name,
		Address:            "12 Nguyễn Huệ, Quận 1",
		Latitude:           "10.7769",
		Longitude:          "106.7009",
		OwnerID:            ownerID,
		MotorcycleCapacity: 80,
		CarCapacity:        10,
		MotorcyclePrice:    5000,
		CarPrice:           30000,
		OperatingHours:     &entities.OperatingHours{OpenTime: "06:00", CloseTime: "22:00"},
	}
}

func strPtr(s string) *string { return &s }
