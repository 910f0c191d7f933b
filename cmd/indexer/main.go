package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/parkshare/backend/internal/adapters/database"
	"github.com/parkshare/backend/internal/adapters/search"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/clients/postgres"
	"github.com/parkshare/backend/internal/infrastructure/clients/typesense"
	"github.com/parkshare/backend/internal/infrastructure/observability"
	"github.com/parkshare/backend/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("parkshare-indexer", cfg.Server.Env)
	logger := observability.GetLogger()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}
	interval, err := parseInterval(intervalValue)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid interval")
	}

	if os.Getenv("RESET_TYPESENSE") == "true" {
		reset = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			logger.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		logger.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			logger.Info().Msg("reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// parseInterval accepts an empty value as "run once"
func parseInterval(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	interval, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", value, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be greater than zero")
	}
	return interval, nil
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset {
		observability.LoggerFromContext(ctx).Info().Str("collection", typesense.ParkingLotsCollection).Msg("dropping collection before reindex")
		if err := tsClient.DropSchema(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to drop collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	_, err = reindex(ctx, database.NewStore(pgClient, nil), search.NewTypesenseAdapter(tsClient))
	return err
}

// reindex pushes every stored lot to index and returns how many succeeded.
// Individual failures are logged and skipped.
func reindex(ctx context.Context, store repositories.Store, index repositories.ParkingLotIndex) (int, error) {
	logger := observability.LoggerFromContext(ctx)

	lots, err := store.ParkingLots().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list parking lots: %w", err)
	}

	logger.Info().Int("parking_lots", len(lots)).Msg("indexing parking lots")

	indexed := 0
	for _, lot := range lots {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		if err := index.Index(ctx, lot); err != nil {
			logger.Warn().Err(err).Str("parking_lot_id", lot.ID).Msg("failed to index parking lot")
			continue
		}
		indexed++
	}

	logger.Info().Int("indexed", indexed).Msg("indexing finished")
	return indexed, nil
}
