package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/parkshare/backend/internal/infrastructure/observability"
	"github.com/parkshare/backend/pkg/config"
	"github.com/parkshare/backend/pkg/retry"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	ParkingLotsCollection = "parking_lots"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	return connect(ctx, cfg, retry.DefaultConfig())
}

func connect(ctx context.Context, cfg *config.TypesenseConfig, retryConfig retry.Config) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	logger := observability.LoggerFromContext(ctx)
	err := retry.DoWithLog(ctx, retryConfig, "typesense", logger, func() error {
		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return (&Client{client: client}).Ping(healthCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// Ping reports whether the Typesense node is healthy
func (c *Client) Ping(ctx context.Context) error {
	ok, err := c.client.Health(ctx, 2*time.Second)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("typesense reported unhealthy")
	}
	return nil
}

// InitSchema ensures the parking lots collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ParkingLotsCollection {
			return nil
		}
	}

	_, err = c.client.Collections().Create(ctx, ParkingLotSchema())
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	observability.LoggerFromContext(ctx).Info().Str("collection", ParkingLotsCollection).Msg("created Typesense collection")
	return nil
}

// DropSchema deletes the parking lots collection
func (c *Client) DropSchema(ctx context.Context) error {
	if _, err := c.client.Collection(ParkingLotsCollection).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil
}

// ParkingLotSchema describes the lot documents used for type-ahead
func ParkingLotSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: ParkingLotsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "address", Type: "string"},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "location", Type: "geopoint"},
			{Name: "rating", Type: "float"},
			{Name: "total_reviews", Type: "int32"},
			{Name: "motorcycle_price", Type: "int32"},
			{Name: "car_price", Type: "int32"},
			{Name: "tags", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}
}
