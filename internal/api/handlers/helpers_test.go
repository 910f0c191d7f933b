package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/parkshare/backend/internal/adapters/memory"
	"github.com/parkshare/backend/internal/api/handlers"
	"github.com/parkshare/backend/internal/api/routes"
	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/stretchr/testify/require"
)

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.ParkingEvent
	published   []*entities.ParkingEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.ParkingEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ParkingEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	channels := append([]chan *entities.ParkingEvent(nil), m.subscribers[channel]...)
	m.mu.Unlock()

	for _, ch := range channels {
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
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	subs := m.subscribers
	m.subscribers = make(map[string][]chan *entities.ParkingEvent)
	m.mu.Unlock()
	for _, channels := range subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}

func (m *MockEventBus) PublishedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.published)
}

type testServer struct {
	handler http.Handler
	store   *memory.Store
	bus     *MockEventBus
	health  *handlers.HealthHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	bus := NewMockEventBus()
	dispatcher := services.NewDispatcher(bus, nil, nil, nil)
	points := services.NewPointsService(store, dispatcher)
	users := services.NewUserService(store)
	lots := services.NewParkingLotService(store, nil, points, dispatcher)
	reviews := services.NewReviewService(store, points, dispatcher)
	community := services.NewCommunityService(store, points, dispatcher)
	rewards := services.NewRewardService(store, points, dispatcher)
	health := handlers.NewHealthHandler()

	router := routes.NewRouter(routes.Handlers{
		ParkingLots: handlers.NewParkingLotHandler(lots, reviews),
		Reviews:     handlers.NewReviewHandler(reviews),
		Community:   handlers.NewCommunityHandler(community, store),
		Users:       handlers.NewUserHandler(users, points, rewards, lots),
		Rewards:     handlers.NewRewardHandler(rewards),
		Health:      health,
	}, store, nil, nil, nil)

	return &testServer{
		handler: router.SetupRoutes(),
		store:   store,
		bus:     bus,
		health:  health,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) createUser(t *testing.T, username string) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret",
		"fullName": "Tran " + username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[map[string]interface{}](t, w)
}

func (s *testServer) createLot(t *testing.T, name, ownerID string) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/parking-lots", map[string]interface{}{
		"name":               name,
		"address":            "45 Lê Lợi, Quận 1",
		"lat":                10.7731,
		"lng":                "106.7012",
		"ownerId":            ownerID,
		"motorcycleCapacity": "60",
		"carCapacity":        8,
		"motorcyclePrice":    5000,
		"carPrice":           25000,
		"facilities":         "covered",
		"operatingHours":     map[string]interface{}{"openTime": "06:00", "closeTime": "23:00"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[map[string]interface{}](t, w)
}
