package memory

import (
	"context"
	"strings"

	"github.com/parkshare/backend/internal/domain/entities"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

type userRepo struct {
	*view
}

// Create enforces unique email and username the way a unique index would
func (r *userRepo) Create(_ context.Context, user *entities.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, id := range r.data.userOrder {
		existing := r.data.users[id]
		if strings.EqualFold(existing.Email, user.Email) {
			return apperrors.NewConflictError("Email already registered")
		}
		if existing.Username == user.Username {
			return apperrors.NewConflictError("Username already taken")
		}
	}
	if _, exists := r.data.users[user.ID]; exists {
		return apperrors.NewConflictError("user already exists")
	}

	r.data.users[user.ID] = cloneUser(user)
	r.data.userOrder = append(r.data.userOrder, user.ID)

	id, n := user.ID, len(r.data.userOrder)-1
	r.journal.record(func() {
		delete(r.data.users, id)
		r.data.userOrder = r.data.userOrder[:n]
	})
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entities.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if u, ok := r.data.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *userRepo) GetByIDs(_ context.Context, ids []string) ([]*entities.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	out := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.data.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *userRepo) find(match func(*entities.User) bool) (*entities.User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, id := range r.data.userOrder {
		if u := r.data.users[id]; match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *userRepo) Update(_ context.Context, user *entities.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	prev, ok := r.data.users[user.ID]
	if !ok {
		return apperrors.NewNotFoundError("user not found")
	}
	r.data.users[user.ID] = cloneUser(user)
	r.journal.record(func() { r.data.users[prev.ID] = prev })
	return nil
}
