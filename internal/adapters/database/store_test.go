package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/parkshare/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "postgres")
	return NewStore(postgres.NewFromDB(db), nil), mock
}

var userRowColumns = []string{
	"id", "username", "email", "password", "full_name", "phone",
	"vehicle_type", "points", "member_tier", "created_at",
}

var lotRowColumns = []string{
	"id", "name", "address", "latitude", "longitude", "owner_id",
	"motorcycle_capacity", "car_capacity", "motorcycle_price", "car_price",
	"current_motorcycle_spots", "current_car_spots", "facilities", "operating_hours",
	"rating", "total_reviews", "status", "description", "created_at",
}

func lotRow(rows *sqlmock.Rows, id, name string) *sqlmock.Rows {
	return rows.AddRow(id, name, "Quận 1", "10.77", "106.70", "anonymous",
		50, 5, 5000, 25000, 50, 5,
		[]byte(`["covered","camera"]`), []byte(`{"openTime":"06:00","closeTime":"22:00","is24h":false}`),
		"4.50", 2, "active", nil, time.Now())
}

func TestUserAdapter_GetByIDNotFound(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE \("id" = \$1\)`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userRowColumns))

	_, err := store.Users().GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdapter_CreateMapsUniqueViolations(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "users_email_lower_key"})
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "users_username_key"})

	user := &entities.User{ID: "u1", Username: "lan", Email: "lan@example.com"}

	err := store.Users().Create(context.Background(), user)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	assert.Contains(t, err.Error(), "Email already registered")

	err = store.Users().Create(context.Background(), user)
	require.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	assert.Contains(t, err.Error(), "Username already taken")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTxLocksAndCommits(t *testing.T) {
	ctx := context.Background()
	store, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM "users" WHERE \("id" = \$1\) FOR UPDATE`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "lan", "lan@example.com", "secret", "Lan", nil, "motorcycle", 490, "bronze", time.Now()))
	mock.ExpectExec(`UPDATE "users" SET .+ WHERE \("id" = \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "points_history"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, "u1")
		if err != nil {
			return err
		}
		user.ApplyPoints(10)
		assert.Equal(t, entities.MemberTierSilver, user.MemberTier)
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		return tx.PointsHistory().Create(ctx, &entities.PointsHistory{
			ID: "p1", UserID: "u1", Points: 10, Activity: entities.ActivityStatusUpdate, CreatedAt: time.Now(),
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store, mock := setupMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "reviews"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Reviews().Create(ctx, &entities.Review{ID: "r1", ParkingLotID: "l1", UserID: "u1", Rating: 5}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserAdapter_UpdateMissingRow(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Users().Update(context.Background(), &entities.User{ID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParkingLotAdapter_DecodesJSONColumns(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM "parking_lots" WHERE \("id" = \$1\)`).
		WithArgs("lot-1").
		WillReturnRows(lotRow(sqlmock.NewRows(lotRowColumns), "lot-1", "Bãi xe Bến Thành"))

	lot, err := store.ParkingLots().GetByID(context.Background(), "lot-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"covered", "camera"}, lot.Facilities)
	require.NotNil(t, lot.OperatingHours)
	assert.Equal(t, "22:00", lot.OperatingHours.CloseTime)
	assert.Equal(t, "4.50", lot.Rating)
	assert.Equal(t, entities.LotStatusActive, lot.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParkingLotAdapter_SearchAppliesTextFilter(t *testing.T) {
	store, mock := setupMockStore(t)

	rows := sqlmock.NewRows(lotRowColumns)
	lotRow(rows, "lot-1", "Bãi xe Bến Thành")
	lotRow(rows, "lot-2", "Bãi xe Tân Định")

	mock.ExpectQuery(`SELECT .+ FROM "parking_lots" WHERE .*"status" = \$1.*"car_capacity" > \$\d+.*ORDER BY "seq" ASC`).
		WillReturnRows(rows)

	lots, err := store.ParkingLots().Search(context.Background(), entities.SearchFilters{
		Search:      "tân định",
		VehicleType: entities.VehicleTypeCar,
	})
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "lot-2", lots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunityUpdateAdapter_ListRecentNewestFirst(t *testing.T) {
	store, mock := setupMockStore(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM "community_updates" ORDER BY "created_at" DESC, "seq" DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parking_lot_id", "user_id", "status", "comment", "points_earned", "created_at"}).
			AddRow("c2", "lot-1", "u1", "full", nil, 10, now).
			AddRow("c1", "lot-1", "u1", "available", "còn chỗ", 10, now.Add(-time.Minute)))

	updates, err := store.CommunityUpdates().ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, entities.CommunityStatusFull, updates[0].Status)
	require.NotNil(t, updates[1].Comment)
	assert.Equal(t, "còn chỗ", *updates[1].Comment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsHistoryAdapter_ListByUserNewestFirst(t *testing.T) {
	store, mock := setupMockStore(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM "points_history" WHERE \("user_id" = \$1\) ORDER BY "created_at" DESC, "seq" DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "points", "activity", "description", "created_at"}).
			AddRow("h2", "u1", -100, "reward_redemption", "Đổi thưởng: Voucher Grab 20k", now).
			AddRow("h1", "u1", 5, "review", "Viết đánh giá", now))

	history, err := store.PointsHistory().ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "h2", history[0].ID)
	assert.Equal(t, -100, history[0].Points)
	assert.NoError(t, mock.ExpectationsWereMet())
}
