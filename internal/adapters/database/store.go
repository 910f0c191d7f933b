package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/parkshare/backend/internal/domain/repositories"
	"github.com/parkshare/backend/internal/infrastructure/clients/postgres"
	"github.com/parkshare/backend/internal/infrastructure/observability"
	apperrors "github.com/parkshare/backend/pkg/errors"
)

const uniqueViolation = "23505"

// Store implements repositories.Store on PostgreSQL. The root Store runs
// each call in its own implicit transaction; WithinTx hands out a Store
// bound to one sqlx.Tx.
type Store struct {
	db      *sqlx.DB
	q       sqlx.ExtContext
	inTx    bool
	dialect goqu.DialectWrapper
	metrics *observability.Metrics
}

// NewStore creates a PostgreSQL-backed store. metrics may be nil.
func NewStore(client *postgres.Client, metrics *observability.Metrics) *Store {
	return &Store{
		db:      client.DB(),
		q:       client.DB(),
		dialect: goqu.Dialect("postgres"),
		metrics: metrics,
	}
}

func (s *Store) Users() repositories.UserRepository { return &userAdapter{s} }
func (s *Store) ParkingLots() repositories.ParkingLotRepository { return &parkingLotAdapter{s} }
func (s *Store) Reviews() repositories.ReviewRepository { return &reviewAdapter{s} }
func (s *Store) CommunityUpdates() repositories.CommunityUpdateRepository {
	return &communityUpdateAdapter{s}
}
func (s *Store) Rewards() repositories.RewardRepository { return &rewardAdapter{s} }
func (s *Store) UserRewards() repositories.UserRewardRepository { return &userRewardAdapter{s} }
func (s *Store) PointsHistory() repositories.PointsHistoryRepository {
	return &pointsHistoryAdapter{s}
}

// WithinTx runs fn in a database transaction. Rows read for update inside
// fn stay locked until commit, which serializes concurrent balance changes.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	txStore := &Store{
		db:      s.db,
		q:       tx,
		inTx:    true,
		dialect: s.dialect,
		metrics: s.metrics,
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			observability.LoggerFromContext(ctx).Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

// forUpdate locks the selected rows when running inside a transaction
func (s *Store) forUpdate(ds *goqu.SelectDataset) *goqu.SelectDataset {
	if s.inTx {
		return ds.ForUpdate(exp.Wait)
	}
	return ds
}

func (s *Store) timed(ctx context.Context, operation string) func() {
	start := time.Now()
	return func() {
		observability.RecordDBMetric(ctx, s.metrics, operation, time.Since(start))
	}
}

func (s *Store) get(ctx context.Context, dest interface{}, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.GetContext(ctx, s.q, dest, query, args...)
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	if err := sqlx.SelectContext(ctx, s.q, dest, query, args...); err != nil {
		return apperrors.NewInternalError("failed to query rows", err)
	}
	return nil
}

func (s *Store) insert(ctx context.Context, table string, record goqu.Record) error {
	query, args, err := s.dialect.Insert(table).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	_, err = s.q.ExecContext(ctx, query, args...)
	return err
}

// update returns NOT_FOUND when no row matched id
func (s *Store) update(ctx context.Context, table, id string, record goqu.Record, what string) error {
	query, args, err := s.dialect.Update(table).Prepared(true).
		Set(record).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to read affected rows", err)
	}
	if rows == 0 {
		return apperrors.NewNotFoundError(what + " not found")
	}
	return nil
}

// writeError maps unique violations to CONFLICT. conflicts names the
// message to use per constraint.
func writeError(err error, what string, conflicts map[string]string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if msg, ok := conflicts[pqErr.Constraint]; ok {
			return apperrors.NewConflictError(msg)
		}
		return apperrors.NewConflictError(what + " already exists")
	}
	return apperrors.NewInternalError("failed to write "+what, err)
}

// readError maps sql.ErrNoRows to NOT_FOUND
func readError(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(what + " not found")
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewInternalError("failed to query "+what, err)
}
