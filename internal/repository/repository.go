package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

const (
	defaultTxTimeout   = 5 * time.Second
	defaultLockTimeout = 3 * time.Second
)

// Postgres error codes the stores react to.
const (
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
	pgLockNotAvailable  = "55P03"
	pgDeadlockDetected  = "40P01"
	pgQueryCanceled     = "57014"
	pgSerializationFail = "40001"
)

type txKey struct{}

// withTx stores a SQL transaction in context for downstream store usage.
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// txFrom extracts a SQL transaction from context if present.
func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository provides the shared connection handling for the Postgres stores.
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// conn returns the transaction bound to ctx, or the pool.
func (r *Repository) conn(ctx context.Context) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return r.db
}

// Transactor runs functions inside a Postgres transaction.
type Transactor struct {
	db          *sql.DB
	timeout     time.Duration
	lockTimeout time.Duration
}

// NewTransactor builds a Transactor. Zero durations fall back to defaults.
func NewTransactor(db *sql.DB, timeout, lockTimeout time.Duration) *Transactor {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &Transactor{db: db, timeout: timeout, lockTimeout: lockTimeout}
}

// RunInTx executes fn with a context carrying the transaction. The transaction
// commits when fn returns nil and rolls back otherwise. A nested call joins the
// outer transaction.
func (t *Transactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w: %w", ErrLockTimeout, err)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", t.lockTimeout.Milliseconds())); err != nil {
		return mapPgError(fmt.Errorf("failed to set lock timeout: %w", err))
	}

	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapPgError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// mapPgError tags driver errors with the matching sentinel.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrLockTimeout, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		case pgLockNotAvailable, pgDeadlockDetected, pgQueryCanceled, pgSerializationFail:
			return fmt.Errorf("%w: %w", ErrLockTimeout, err)
		}
	}
	return err
}
