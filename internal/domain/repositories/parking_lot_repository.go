package repositories

import (
	"context"

	"github.com/parkshare/backend/internal/domain/entities"
)

// ParkingLotRepository defines the interface for parking lot data operations
type ParkingLotRepository interface {
	// Create creates a new parking lot
	Create(ctx context.Context, lot *entities.ParkingLot) error

	// GetByID retrieves a parking lot by ID
	GetByID(ctx context.Context, id string) (*entities.ParkingLot, error)

	// GetByIDs retrieves the lots that exist among ids
	GetByIDs(ctx context.Context, ids []string) ([]*entities.ParkingLot, error)

	// List returns every lot in creation order
	List(ctx context.Context) ([]*entities.ParkingLot, error)

	// ListByOwner returns the lots registered by ownerID
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.ParkingLot, error)

	// Search returns the lots matching every filter, in creation order
	Search(ctx context.Context, filters entities.SearchFilters) ([]*entities.ParkingLot, error)

	// Update replaces the stored lot
	Update(ctx context.Context, lot *entities.ParkingLot) error
}

// ParkingLotIndex is a secondary full-text index over parking lots
type ParkingLotIndex interface {
	// Index upserts a lot document
	Index(ctx context.Context, lot *entities.ParkingLot) error

	// Suggest returns typo-tolerant name matches for type-ahead
	Suggest(ctx context.Context, query string, limit int) ([]*entities.LotSuggestion, error)
}
