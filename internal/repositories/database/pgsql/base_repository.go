package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/smb_books/internal/apperrors"
	portsrepo "github.com/SscSPs/smb_books/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction carried by ctx, or the pool outside a unit of work.
func (r *BaseRepository) db(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.Pool
}

// inTx reports whether ctx carries a transaction.
func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(pgx.Tx)
	return ok
}

// Begin starts a new database transaction, or a savepoint when ctx already carries one.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	var (
		tx  pgx.Tx
		err error
	)
	if outer, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		tx, err = outer.Begin(ctx)
	} else {
		tx, err = r.Pool.Begin(ctx)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// PgxTxManager implements portsrepo.TransactionManager on a pgx pool.
type PgxTxManager struct {
	BaseRepository
}

// NewPgxTxManager creates a transaction manager for the pool.
func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTxManager)(nil)

// WithinTx runs fn in a transaction. Nested calls run as savepoints of the outer transaction.
func (m *PgxTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(ctx, tx)
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := m.Rollback(ctx, tx); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to roll back transaction", slog.Any("error", rbErr), slog.Any("cause", err))
		}
		return err
	}
	return m.Commit(ctx, tx)
}

// Postgres error codes mapped onto application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translateError maps driver errors onto the apperrors sentinels. entity names
// the row kind for not-found messages.
func translateError(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NotFound(entity)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, entity, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return apperrors.Validation("%s references a missing record (%s)", entity, pgErr.ConstraintName)
		case pgCheckViolation:
			return apperrors.Validation("%s violates constraint %s", entity, pgErr.ConstraintName)
		}
	}
	return apperrors.NewAppError(500, op, err)
}

// expectRows turns a zero-row update into a not-found error.
func expectRows(tag pgconn.CommandTag, entity string) error {
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(entity)
	}
	return nil
}
