// Package store provides SQLite persistence for accounts, credentials,
// and tasks. It owns id assignment and the fused id+owner lookup that
// makes "exists but not yours" indistinguishable from "does not exist".
//
// The pool is a fixed-size set of connections with WAL journaling.
// Connections are not safe for concurrent use; every method takes its
// own connection and returns it when done.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"minitask/internal/clock"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS credentials (
	token_hash TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	issued_at  INTEGER NOT NULL,
	expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS credentials_account ON credentials(account_id);

CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	owner      TEXT NOT NULL,
	title      TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS tasks_owner_created ON tasks(owner, created_at DESC);
`

// Config holds the parameters for opening a store.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// file is created if it does not exist. Use ":memory:" with
	// PoolSize 1 for tests.
	Path string

	// PoolSize is the number of pooled connections. Defaults to 4 if
	// zero or negative. SQLite serializes writes regardless, so extra
	// connections only help concurrent reads.
	PoolSize int

	// Clock provides creation timestamps. Required.
	Clock clock.Clock

	// Logger receives operational messages. If nil, a discard logger
	// is used.
	Logger *slog.Logger
}

// Store is the persistence layer. Safe for concurrent use.
type Store struct {
	pool   *sqlitex.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// Open creates the connection pool, applies standard pragmas to every
// connection, and bootstraps the schema. The caller must Close the
// store when done.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: Path is required")
	}
	if cfg.Clock == nil {
		return nil, fmt.Errorf("store: Clock is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", cfg.Path, err)
	}

	logger.Info("store opened", "path", cfg.Path, "pool_size", poolSize)

	return &Store{
		pool:   pool,
		clock:  cfg.Clock,
		logger: logger,
	}, nil
}

// Close closes every pooled connection. Blocks until borrowed
// connections are returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}

// take borrows a connection from the pool.
func (s *Store) take(ctx context.Context) (*sqlite.Conn, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: take connection: %w", err)
	}
	return conn, nil
}

// prepareConn runs once per pooled connection: standard pragmas first,
// then the schema (idempotent, so running it per connection is safe).
func prepareConn(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("store: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("store: schema: %w", err)
	}
	return nil
}
