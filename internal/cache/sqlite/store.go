// Package sqlite provides a SQLite-backed cache store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/gametable/internal/cache"
	"github.com/louisbranch/gametable/internal/platform/storage/sqlitemigrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists cache entries in a local SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (and migrates) the store at the provided path.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrationFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Get returns the raw payload under key, or cache.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.sqlDB.QueryRowContext(ctx, "SELECT value FROM entries WHERE key = ?", key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, cache.ErrNotFound
		}
		return nil, fmt.Errorf("read entry %s: %w", key, err)
	}
	return value, nil
}

// Put stores the raw payload under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO entries (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, key, value, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("write entry %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry under key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM entries WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete entry %s: %w", key, err)
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}
