package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

const (
	defaultHeartbeat = 30 * time.Second
	defaultRegionKm  = 50.0
)

// SSEHandler handles Server-Sent Events for live parking updates
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	clients   map[string]int // channel -> connected clients
	mu        sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: defaultHeartbeat,
		clients:   make(map[string]int),
	}
}

// WithHeartbeat overrides the keep-alive interval
func (h *SSEHandler) WithHeartbeat(d time.Duration) *SSEHandler {
	h.heartbeat = d
	return h
}

// StreamCommunityUpdates handles GET /api/stream/community-updates
func (h *SSEHandler) StreamCommunityUpdates(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelCommunityUpdates, map[string]interface{}{
		"channel":   "community-updates",
		"timestamp": time.Now(),
	}, nil)
}

// StreamParkingLotUpdates handles GET /api/stream/parking-lots/{id}
func (h *SSEHandler) StreamParkingLotUpdates(w http.ResponseWriter, r *http.Request) {
	lotID := r.PathValue("id")
	if lotID == "" {
		respondWithError(w, http.StatusBadRequest, "parking lot ID is required")
		return
	}

	h.stream(w, r, providers.GetLotChannel(lotID), map[string]interface{}{
		"parkingLotId": lotID,
		"timestamp":    time.Now(),
	}, nil)
}

// StreamRegionalUpdates handles GET /api/stream/region?lat=X&lon=Y&radius=Z
func (h *SSEHandler) StreamRegionalUpdates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		respondWithError(w, http.StatusBadRequest, "invalid latitude parameter")
		return
	}

	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		respondWithError(w, http.StatusBadRequest, "invalid longitude parameter")
		return
	}

	radius := defaultRegionKm
	if raw := query.Get("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	inRegion := func(event *entities.ParkingEvent) bool {
		return haversineDistance(lat, lon, event.Location.Latitude, event.Location.Longitude) <= radius
	}

	h.stream(w, r, providers.EventChannelParkingUpdates, map[string]interface{}{
		"lat":       lat,
		"lon":       lon,
		"radiusKm":  radius,
		"timestamp": time.Now(),
	}, inRegion)
}

// stream subscribes to channel and writes matching events until the client
// disconnects. A nil filter passes every event.
func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}, filter func(*entities.ParkingEvent) bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx).With().Str("channel", channel).Logger()

	eventChan, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		logger.Error().Err(err).Msg("failed to subscribe to channel")
		respondWithError(w, http.StatusServiceUnavailable, "event stream unavailable")
		return
	}

	// Streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	h.registerClient(channel)
	defer h.unregisterClient(channel)

	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("stream client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil || (filter != nil && !filter(event)) {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) registerClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[channel]++
}

func (h *SSEHandler) unregisterClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[channel]--; h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
}

// sendEvent sends an SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		observability.GetLogger().Error().Err(err).Msg("failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

// haversineDistance calculates the distance between two points in kilometers
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// GetClientCount returns the number of connected clients
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, n := range h.clients {
		count += n
	}
	return count
}
