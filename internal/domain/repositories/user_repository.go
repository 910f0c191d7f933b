package repositories

import (
	"context"

	"github.com/parkshare/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations. Lookups
// of unknown users return a NOT_FOUND AppError.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByIDs retrieves the users that exist among ids, in no particular order
	GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update replaces the stored user
	Update(ctx context.Context, user *entities.User) error
}
