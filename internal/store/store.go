package store

import (
	"context"
	"errors"
	"strings"
	"time"

	logx "shopwatch/pkg/logx"
)

// Store is the dedup/cursor persistence API shared by all poll loops and
// the daily aggregator.
//
// Semantics:
//   - MarkNotified is an idempotent upsert; marking the same key twice is
//     not an error and leaves exactly one row.
//   - GetCursor persists and returns def when the cursor does not exist
//     yet (first-call initialization, not a pure read).
//   - Any storage error propagates to the caller; callers abort their tick
//     rather than send something they cannot de-duplicate later.
type Store interface {
	WasNotified(ctx context.Context, key string) (bool, error)
	MarkNotified(ctx context.Context, key string) error
	GetCursor(ctx context.Context, name, def string) (string, error)
	SetCursor(ctx context.Context, name, value string) error
	Close() error
}

// Config configures storage.
//
// Driver values:
//   - "sqlite" (default when empty): SQLite database file
//   - "memory": process-local, for tests and ephemeral runs
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default

	// Retention drops sent_events rows older than this age during the
	// opportunistic sweep. 0 disables the sweep. Cursors are never swept.
	Retention time.Duration
}

// Open initializes the configured store.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	switch driver := strings.ToLower(strings.TrimSpace(cfg.Driver)); driver {
	case "", "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
