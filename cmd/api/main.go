package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/parkshare/backend/internal/adapters/cache"
	"github.com/parkshare/backend/internal/adapters/database"
	"github.com/parkshare/backend/internal/adapters/events"
	"github.com/parkshare/backend/internal/adapters/memory"
	"github.com/parkshare/backend/internal/adapters/search"
	"github.com/parkshare/backend/internal/api/handlers"
	"github.com/parkshare/backend/internal/api/middleware"
	"github.com/parkshare/backend/internal/api/routes"
	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/clients/kafka"
	"github.com/parkshare/backend/internal/infrastructure/clients/postgres"
	"github.com/parkshare/backend/internal/infrastructure/clients/redis"
	"github.com/parkshare/backend/internal/infrastructure/clients/typesense"
	"github.com/parkshare/backend/internal/infrastructure/observability"
	"github.com/parkshare/backend/internal/seed"
	"github.com/parkshare/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	health := handlers.NewHealthHandler()

	// Persistence
	var store repositories.Store
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		if err := database.Migrate(ctx, pgClient); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database schema")
		}
		store = database.NewStore(pgClient, metrics)
		health.AddCheck("postgres", pgClient.Ping)
	default:
		store = memory.NewStore()
		logger.Info().Msg("using in-memory store")
	}

	// Optional Redis: response cache and cross-process event bus
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, running without cache")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			health.AddCheck("redis", redisClient.Ping)
		}
	}
	if eventBus == nil {
		eventBus = events.NewMemoryEventBus()
	}
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing event bus")
		}
	}()

	// Optional Typesense index for type-ahead
	var index repositories.ParkingLotIndex
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Typesense unavailable, suggestions fall back to name matching")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		} else {
			index = search.NewTypesenseAdapter(tsClient)
			health.AddCheck("typesense", tsClient.Ping)
		}
	}

	// Optional Kafka activity stream
	var activity providers.ActivityPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewSyncProducer(ctx, &cfg.Kafka)
		if err != nil {
			logger.Warn().Err(err).Msg("Kafka unavailable, activity stream disabled")
		} else {
			publisher := events.NewKafkaActivityPublisher(producer, cfg.Kafka.Topic)
			defer publisher.Close()
			activity = publisher
		}
	}

	// Services
	dispatcher := services.NewDispatcher(eventBus, activity, index, metrics)

	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		dispatcher.WithCacheInvalidation(cacheInvalidationService)
		if err := cacheInvalidationService.Start(); err != nil {
			logger.Warn().Err(err).Msg("failed to start cache invalidation service")
		}
	}

	pointsService := services.NewPointsService(store, dispatcher)
	userService := services.NewUserService(store)
	parkingLotService := services.NewParkingLotService(store, index, pointsService, dispatcher)
	reviewService := services.NewReviewService(store, pointsService, dispatcher)
	communityService := services.NewCommunityService(store, pointsService, dispatcher)
	rewardService := services.NewRewardService(store, pointsService, dispatcher)

	if cfg.Seed.DemoData {
		result, err := seed.Load(ctx, store, index)
		if err != nil {
			logger.Error().Err(err).Msg("failed to load demo data")
		} else if cacheInvalidationService != nil {
			if err := seed.RefreshCaches(ctx, cacheInvalidationService, result); err != nil {
				logger.Warn().Err(err).Msg("failed to refresh caches after seeding")
			}
		}
	}

	// Cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)
	}

	sseHandler := handlers.NewSSEHandler(eventBus)

	router := routes.NewRouter(
		routes.Handlers{
			ParkingLots: handlers.NewParkingLotHandler(parkingLotService, reviewService),
			Reviews:     handlers.NewReviewHandler(reviewService),
			Community:   handlers.NewCommunityHandler(communityService, store),
			Users:       handlers.NewUserHandler(userService, pointsService, rewardService, parkingLotService),
			Rewards:     handlers.NewRewardHandler(rewardService),
			Health:      health,
			SSE:         sseHandler,
		},
		store,
		cacheMiddleware,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	// Create HTTP server. Stream handlers lift the write deadline per request.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	logger.Info().Msg("server stopped")
}
