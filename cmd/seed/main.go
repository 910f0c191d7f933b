package main

import (
	"context"
	"fmt"
	"os"

	"github.com/parkshare/backend/internal/adapters/cache"
	"github.com/parkshare/backend/internal/adapters/database"
	"github.com/parkshare/backend/internal/adapters/search"
	"github.com/parkshare/backend/internal/application/services"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/clients/postgres"
	"github.com/parkshare/backend/internal/infrastructure/clients/redis"
	"github.com/parkshare/backend/internal/infrastructure/clients/typesense"
	"github.com/parkshare/backend/internal/infrastructure/observability"
	"github.com/parkshare/backend/internal/seed"
	"github.com/parkshare/backend/pkg/config"
)

const resetTables = `
	TRUNCATE TABLE
		points_history,
		user_rewards,
		community_updates,
		reviews,
		rewards,
		parking_lots,
		users
	CASCADE
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("parkshare-seed", cfg.Server.Env)
	logger := observability.GetLogger()
	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	if err := database.Migrate(ctx, pgClient); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		logger.Warn().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, resetTables); err != nil {
			logger.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	var index repositories.ParkingLotIndex
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Typesense unavailable, seeding without index")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to init Typesense schema")
		} else {
			index = search.NewTypesenseAdapter(tsClient)
		}
	}

	result, err := seed.Load(ctx, database.NewStore(pgClient, nil), index)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed data")
	}

	// Running API instances may hold cached catalog and lot responses in Redis
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, cached responses expire on their own")
		} else {
			defer redisClient.Close()
			invalidator := services.NewCacheInvalidationService(cache.NewRedisAdapter(redisClient), nil)
			if err := seed.RefreshCaches(ctx, invalidator, result); err != nil {
				logger.Warn().Err(err).Msg("failed to refresh caches after seeding")
			}
		}
	}

	logger.Info().Int("rewards", result.Rewards).Int("parking_lots", result.ParkingLots).Msg("seeding completed")
}
