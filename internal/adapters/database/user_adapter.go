package database

import (
	"context"
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/parkshare/backend/internal/domain/entities"
)

const usersTable = "users"

var userColumns = []interface{}{
	"id", "username", "email", "password", "full_name", "phone",
	"vehicle_type", "points", "member_tier", "created_at",
}

// Unique constraints on users, mapped to client-facing conflict messages
var userConflicts = map[string]string{
	"users_email_lower_key": "Email already registered",
	"users_username_key":    "Username already taken",
	"users_pkey":            "user already exists",
}

type userAdapter struct {
	*Store
}

func userRecord(user *entities.User) goqu.Record {
	return goqu.Record{
		"id":           user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"password":     user.Password,
		"full_name":    user.FullName,
		"phone":        user.Phone,
		"vehicle_type": string(user.VehicleType),
		"points":       user.Points,
		"member_tier":  string(user.MemberTier),
		"created_at":   user.CreatedAt,
	}
}

func (a *userAdapter) Create(ctx context.Context, user *entities.User) error {
	defer a.timed(ctx, "users.create")()
	return writeError(a.insert(ctx, usersTable, userRecord(user)), "user", userConflicts)
}

// GetByID locks the row inside a transaction so balance updates serialize
func (a *userAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	defer a.timed(ctx, "users.get")()

	ds := a.dialect.From(usersTable).Select(userColumns...).Where(goqu.Ex{"id": id})
	var user entities.User
	if err := a.get(ctx, &user, a.forUpdate(ds)); err != nil {
		return nil, readError(err, "user")
	}
	return &user, nil
}

func (a *userAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	if len(ids) == 0 {
		return []*entities.User{}, nil
	}
	defer a.timed(ctx, "users.get_many")()

	users := []*entities.User{}
	ds := a.dialect.From(usersTable).Select(userColumns...).Where(goqu.Ex{"id": ids})
	if err := a.selectAll(ctx, &users, ds); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *userAdapter) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	defer a.timed(ctx, "users.get_by_username")()

	ds := a.dialect.From(usersTable).Select(userColumns...).Where(goqu.Ex{"username": username})
	var user entities.User
	if err := a.get(ctx, &user, ds); err != nil {
		return nil, readError(err, "user")
	}
	return &user, nil
}

func (a *userAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	defer a.timed(ctx, "users.get_by_email")()

	ds := a.dialect.From(usersTable).Select(userColumns...).
		Where(goqu.Func("lower", goqu.C("email")).Eq(strings.ToLower(email)))
	var user entities.User
	if err := a.get(ctx, &user, ds); err != nil {
		return nil, readError(err, "user")
	}
	return &user, nil
}

func (a *userAdapter) Update(ctx context.Context, user *entities.User) error {
	defer a.timed(ctx, "users.update")()

	record := userRecord(user)
	delete(record, "id")
	delete(record, "created_at")
	return writeError(a.update(ctx, usersTable, user.ID, record, "user"), "user", userConflicts)
}
