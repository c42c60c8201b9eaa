package iconcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS icon_cache (
	key        TEXT PRIMARY KEY,
	uri        TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore persists icon URIs in a single-table SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the cache database at path.
// The special path ":memory:" keeps the cache in memory.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("icon cache path is required")
	}
	if trimmed != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(trimmed), 0o755); err != nil {
			return nil, fmt.Errorf("create icon cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", buildSQLiteDSN(trimmed))
	if err != nil {
		return nil, fmt.Errorf("open icon cache: %w", err)
	}
	// One connection keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping icon cache: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create icon cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func buildSQLiteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(path),
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(3000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u.RawQuery = q.Encode()
	return u.String()
}

// Get returns the cached URI for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var uri string
	err := s.db.QueryRowContext(ctx, `SELECT uri FROM icon_cache WHERE key = ?`, key).Scan(&uri)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("read icon %s: %w", key, err)
	}
	return uri, true, nil
}

// SetMany upserts all entries in one transaction.
func (s *SQLiteStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin icon cache write: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO icon_cache (key, uri, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET uri = excluded.uri, updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("prepare icon cache write: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	now := time.Now().Unix()
	for key, uri := range entries {
		if _, err := stmt.ExecContext(ctx, key, uri, now); err != nil {
			return fmt.Errorf("write icon %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit icon cache write: %w", err)
	}
	return nil
}

// Clear removes every cached icon.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM icon_cache`); err != nil {
		return fmt.Errorf("clear icon cache: %w", err)
	}
	return nil
}

// Keys lists the cached keys in order, for diagnostics.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM icon_cache ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list icon keys: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan icon key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
