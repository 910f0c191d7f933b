package routes

import (
	"net/http"

	"github.com/parkshare/backend/internal/api/handlers"
	"github.com/parkshare/backend/internal/api/loaders"
	"github.com/parkshare/backend/internal/api/middleware"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

// Handlers groups the HTTP handlers the router mounts. SSE may be nil when
// streams are served by a separate process.
type Handlers struct {
	ParkingLots *handlers.ParkingLotHandler
	Reviews     *handlers.ReviewHandler
	Community   *handlers.CommunityHandler
	Users       *handlers.UserHandler
	Rewards     *handlers.RewardHandler
	Health      *handlers.HealthHandler
	SSE         *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux             *http.ServeMux
	handlers        Handlers
	store           repositories.Store
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(h Handlers, store repositories.Store, cacheMiddleware *middleware.CacheMiddleware, allowedOrigins []string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		store:           store,
		cacheMiddleware: cacheMiddleware,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.handlers.Health.Health)

	// Parking lots
	r.mux.HandleFunc("GET /api/parking-lots", r.handlers.ParkingLots.ListParkingLots)
	r.mux.HandleFunc("POST /api/parking-lots", r.handlers.ParkingLots.CreateParkingLot)
	r.mux.HandleFunc("GET /api/parking-lots/search", r.handlers.ParkingLots.SearchParkingLots)
	r.mux.HandleFunc("GET /api/parking-lots/suggest", r.handlers.ParkingLots.SuggestParkingLots)
	r.mux.HandleFunc("GET /api/parking-lots/{id}", r.handlers.ParkingLots.GetParkingLot)
	r.mux.HandleFunc("PUT /api/parking-lots/{id}", r.handlers.ParkingLots.UpdateParkingLot)
	r.mux.HandleFunc("GET /api/parking-lots/{id}/reviews", r.handlers.ParkingLots.ListReviews)

	// Reviews
	r.mux.HandleFunc("POST /api/reviews", r.handlers.Reviews.CreateReview)

	// Community updates
	r.mux.HandleFunc("GET /api/community-updates", r.handlers.Community.ListUpdates)
	r.mux.HandleFunc("GET /api/community-updates/feed", r.handlers.Community.Feed)
	r.mux.HandleFunc("POST /api/community-updates", r.handlers.Community.CreateUpdate)

	// Rewards
	r.mux.HandleFunc("GET /api/rewards", r.handlers.Rewards.ListRewards)
	r.mux.HandleFunc("POST /api/rewards/{id}/redeem", r.handlers.Rewards.Redeem)

	// Users
	r.mux.HandleFunc("POST /api/users", r.handlers.Users.CreateUser)
	r.mux.HandleFunc("GET /api/users/{id}", r.handlers.Users.GetUser)
	r.mux.HandleFunc("PUT /api/users/{id}", r.handlers.Users.UpdateUser)
	r.mux.HandleFunc("GET /api/users/{id}/points-history", r.handlers.Users.PointsHistory)
	r.mux.HandleFunc("GET /api/users/{id}/rewards", r.handlers.Users.ListRewards)
	r.mux.HandleFunc("GET /api/users/{id}/parking-lots", r.handlers.Users.ListParkingLots)

	// Live streams
	if r.handlers.SSE != nil {
		RegisterStreamRoutes(r.mux, r.handlers.SSE)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = loaders.Middleware(r.store)(handler)
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

// RegisterStreamRoutes mounts the SSE endpoints on mux
func RegisterStreamRoutes(mux *http.ServeMux, sse *handlers.SSEHandler) {
	mux.HandleFunc("GET /api/stream/community-updates", sse.StreamCommunityUpdates)
	mux.HandleFunc("GET /api/stream/parking-lots/{id}", sse.StreamParkingLotUpdates)
	mux.HandleFunc("GET /api/stream/region", sse.StreamRegionalUpdates)
}
