// Package cache persists retrieved CSL items in a SQLite database keyed by
// standard citekey, so repeated invocations skip the network.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/refmint/refmint/internal/csl"
)

// ErrMiss indicates the cache holds no item for the requested citekey.
var ErrMiss = errors.New("cache miss")

// DB wraps a SQLite item cache.
type DB struct {
	db *sql.DB
}

// Open opens or creates an item cache at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the cache.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the cache schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS csl_items (
			standard_id TEXT PRIMARY KEY,
			retrieved_at TEXT NOT NULL,
			item_json TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Get returns the cached item for a standard citekey, or ErrMiss.
func (d *DB) Get(standardID string) (csl.Item, error) {
	var itemJSON string
	err := d.db.QueryRow(
		`SELECT item_json FROM csl_items WHERE standard_id = ?`, standardID,
	).Scan(&itemJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", standardID, ErrMiss)
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	var item csl.Item
	if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
		return nil, fmt.Errorf("decoding cached item %s: %w", standardID, err)
	}
	return item, nil
}

// Put stores an item under a standard citekey, replacing any previous entry.
func (d *DB) Put(standardID string, item csl.Item) error {
	itemJSON, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encoding item %s: %w", standardID, err)
	}
	_, err = d.db.Exec(
		`INSERT OR REPLACE INTO csl_items (standard_id, retrieved_at, item_json) VALUES (?, ?, ?)`,
		standardID, time.Now().UTC().Format(time.RFC3339), string(itemJSON),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}
