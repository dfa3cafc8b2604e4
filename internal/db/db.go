// Package db provides PostgreSQL persistence for applications, funnel
// metrics, resume versions, and cached job postings.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgx operations shared by a pool and a transaction,
// so every store method works identically inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store exposes the record-store operations. A Store is either pool-backed
// (the embedded one on DB) or transaction-backed (handed to InTx callbacks).
type Store struct {
	q querier
}

// DB wraps a PostgreSQL connection pool.
type DB struct {
	Store
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Store: Store{q: pool}, pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// InTx runs fn inside a single transaction. The Store passed to fn is bound
// to that transaction, so a status write and its metric update either both
// commit or neither does. Lock and serialization failures are surfaced as
// ConcurrencyConflictError so the caller can retry the whole unit.
func (db *DB) InTx(ctx context.Context, fn func(*Store) error) error {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Store{q: tx}); err != nil {
		return translateErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translateErr(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// translateErr maps PostgreSQL lock/serialization failures to the
// ConcurrencyConflictError kind. Other errors pass through unchanged.
func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization failure, deadlock, lock not available
			return &ConcurrencyConflictError{Cause: err}
		}
	}
	return err
}
