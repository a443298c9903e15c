package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one cached page.
type Entry struct {
	Data     []byte
	StoredAt time.Time
}

// Cache stores catalog pages keyed by (namespace, page).
type Cache interface {
	Get(ctx context.Context, namespace string, page int) (Entry, bool, error)
	Put(ctx context.Context, namespace string, page int, data []byte) error
}

// SQLiteCache is a Cache in a local SQLite file, so pages survive restarts.
// Entries are never swept; staleness is decided by the reader.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

var _ Cache = (*SQLiteCache)(nil)

// OpenSQLiteCache opens (or creates) the cache database at dir/catalog.db.
func OpenSQLiteCache(dir string) (*SQLiteCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "catalog.db"))
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		namespace TEXT NOT NULL,
		page      INTEGER NOT NULL,
		data      BLOB NOT NULL,
		stored_at INTEGER NOT NULL,
		PRIMARY KEY (namespace, page)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &SQLiteCache{db: db, now: time.Now}, nil
}

// Get returns the entry for (namespace, page), if any.
func (c *SQLiteCache) Get(ctx context.Context, namespace string, page int) (Entry, bool, error) {
	var (
		e      Entry
		stored int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT data, stored_at FROM cache_entries WHERE namespace = ? AND page = ?`,
		namespace, page,
	).Scan(&e.Data, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading cache %s/%d: %w", namespace, page, err)
	}
	e.StoredAt = time.UnixMilli(stored)
	return e, true, nil
}

// Put stores data for (namespace, page), stamped with the current time.
func (c *SQLiteCache) Put(ctx context.Context, namespace string, page int, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO cache_entries (namespace, page, data, stored_at) VALUES (?, ?, ?, ?)`,
		namespace, page, data, c.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("writing cache %s/%d: %w", namespace, page, err)
	}
	return nil
}

// Close closes the cache database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
