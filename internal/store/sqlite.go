package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	logx "shopwatch/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger

	retention  time.Duration
	opCount    atomic.Uint64
	sweepEvery uint64
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log, retention: cfg.Retention, sweepEvery: 500}

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) WasNotified(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sent_events WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqliteStore) MarkNotified(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	// Keep the original created_at on re-mark so retention ages from the
	// first observation.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sent_events(key, created_at) VALUES(?, ?)
		 ON CONFLICT(key) DO NOTHING`,
		key, time.Now().Unix(),
	)
	if err == nil && s.retention > 0 && s.opCount.Add(1)%s.sweepEvery == 0 {
		sctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		if serr := s.sweep(sctx); serr != nil {
			s.log.Debug("retention sweep failed", logx.Err(serr))
		}
		cancel()
	}
	return err
}

func (s *sqliteStore) GetCursor(ctx context.Context, name, def string) (string, error) {
	if name == "" {
		return def, nil
	}
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM cursors WHERE name = ?`, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if serr := s.SetCursor(ctx, name, def); serr != nil {
			return "", serr
		}
		return def, nil
	}
	if err != nil {
		return "", err
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (s *sqliteStore) SetCursor(ctx context.Context, name, value string) error {
	if name == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cursors(name, value) VALUES(?, ?)
		 ON CONFLICT(name) DO UPDATE SET value=excluded.value`,
		name, value,
	)
	return err
}

func (s *sqliteStore) sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention).Unix()
	_, err := s.db.ExecContext(ctx, `DELETE FROM sent_events WHERE created_at < ?`, cutoff)
	return err
}
