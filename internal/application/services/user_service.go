package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/domain/validation"
)

// UserService handles registration and profiles
type UserService struct {
	store repositories.Store
}

// NewUserService creates a new user service
func NewUserService(store repositories.Store) *UserService {
	return &UserService{store: store}
}

// CreateUser registers a user with zero points at bronze tier. A duplicate
// email or username is a CONFLICT and leaves the store untouched.
func (s *UserService) CreateUser(ctx context.Context, input *entities.CreateUserInput) (*entities.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:          uuid.New().String(),
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		FullName:    input.FullName,
		Phone:       input.Phone,
		VehicleType: input.VehicleType,
		Points:      0,
		MemberTier:  entities.MemberTierBronze,
		CreatedAt:   time.Now().UTC(),
	}
	if user.VehicleType == "" {
		user.VehicleType = entities.VehicleTypeMotorcycle
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	return s.store.Users().GetByUsername(ctx, username)
}

// GetUserByEmail retrieves a user by email
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return s.store.Users().GetByEmail(ctx, email)
}

// UpdateUser merges profile fields into an existing user
func (s *UserService) UpdateUser(ctx context.Context, id string, patch entities.UserPatch) (*entities.User, error) {
	var updated *entities.User
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		user.Apply(patch)
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
