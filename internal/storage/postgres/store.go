// Package postgres is the PostgreSQL entity store.
//
// Transactions run at READ COMMITTED. Reads through a storage.Tx take
// FOR UPDATE row locks, so two ledger transactions touching the same profile
// or conference serialize on the row while unrelated rows proceed in
// parallel. Callers lock the profile before the conference.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"confcentral/internal/storage"
	dErrors "confcentral/pkg/domain-errors"
	txctx "confcentral/pkg/platform/tx"
)

const (
	defaultTxTimeout   = 5 * time.Second
	defaultLockTimeout = 2 * time.Second
)

//go:embed schema.sql
var schema string

// Store implements storage.Store over a *sql.DB opened with the pgx driver.
type Store struct {
	db          *sql.DB
	timeout     time.Duration
	lockTimeout time.Duration
}

type Option func(*Store)

func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLockTimeout bounds how long a transaction waits on a row lock before
// giving up with a conflict.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, timeout: defaultTxTimeout, lockTimeout: defaultLockTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Store = (*Store)(nil)

// Migrate creates the tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunInTx runs fn in a database transaction. A call made while ctx already
// carries a transaction joins it instead of opening a new one.
func (s *Store) RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if existing, ok := txctx.From(ctx); ok {
		return fn(&pgTx{q: existing})
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return mapError(err, "begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	lockTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
	if _, err := sqlTx.ExecContext(ctx, lockTimeout); err != nil {
		return mapError(err, "set lock timeout")
	}

	if err := fn(&pgTx{q: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

// q returns the transaction carried by ctx, or the pool.
func (s *Store) q(ctx context.Context) txctx.Querier {
	return txctx.QuerierFrom(ctx, s.db)
}
