package database

import (
	"context"
	_ "embed"

	"github.com/parkshare/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables and indexes if they do not exist yet
func Migrate(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schema); err != nil {
		return apperrors.NewInternalError("failed to apply schema", err)
	}
	return nil
}
