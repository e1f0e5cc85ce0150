// Package userdb implements the user dictionary: an ordered KV store
// over SQLite recording per-entry commit counts and recency, with
// transactional revert-on-backspace semantics (spec.md §4.7).
package userdb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go sqlite3 driver
)

//go:embed migrations/*.sql
var migrations embed.FS

// tickKey is the canonical metadata key holding the global tick
// counter, resolved per SPEC_FULL.md's Open Questions: the "\x01/"
// prefix marks metadata rather than a code/text record (spec.md §4.7).
const tickKey = "\x01/tick"

// Store is the ordered KV store backing one schema's user dictionary.
// A single in-flight write transaction is tracked so new_transaction /
// revert_recent_transaction / commit_pending_transaction (spec.md
// §4.7) can be driven by the session layer across several calls.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	path   string

	mu          sync.Mutex
	tx          *sql.Tx
	txStartedAt time.Time
}

// Open opens (creating if absent) the SQLite-backed user dictionary at
// path and runs pending migrations. Use ":memory:" for a scratch store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("opening user dictionary", slog.String("path", path))

	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(WAL)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("userdb: open %s: %w", path, err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("userdb: ping %s: %w", path, err)
	}

	s := &Store{db: db, logger: logger, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("userdb: set dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("userdb: migrate %s: %w", s.path, err)
	}
	return nil
}

// Close closes the underlying database connection. A still-open
// transaction is rolled back first.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.tx != nil {
		_ = s.tx.Rollback()
		s.tx = nil
	}
	s.mu.Unlock()

	s.logger.Debug("closing user dictionary", slog.String("path", s.path))
	return s.db.Close()
}

// execer is satisfied by both *sql.DB and *sql.Tx, letting reads and
// writes transparently join an open transaction when one exists.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the currently open transaction if any, else the pooled
// db handle, so callers always write through whatever revert window
// is active.
func (s *Store) conn() execer {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Tick returns the current global tick counter (spec.md §4.7: "the
// global tick is bumped per committed transaction").
func (s *Store) Tick(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked(ctx)
}

func (s *Store) tickLocked(ctx context.Context) (int64, error) {
	row := s.conn().QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, tickKey)
	var raw string
	switch err := row.Scan(&raw); {
	case err == sql.ErrNoRows:
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("userdb: read tick: %w", err)
	}
	var tick int64
	if _, err := fmt.Sscanf(raw, "%d", &tick); err != nil {
		return 0, fmt.Errorf("userdb: parse tick %q: %w", raw, err)
	}
	return tick, nil
}

func (s *Store) bumpTickLocked(ctx context.Context) error {
	tick, err := s.tickLocked(ctx)
	if err != nil {
		return err
	}
	tick++
	_, err = s.conn().ExecContext(ctx, `INSERT INTO kv(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, tickKey, fmt.Sprintf("%d", tick))
	if err != nil {
		return fmt.Errorf("userdb: bump tick: %w", err)
	}
	return nil
}
