// Package keycache persists resolved table keys in SQLite so page-URL
// resolution survives process restarts.
package keycache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/notional/pkg/types"
)

// fileName is the cache database file created under the data directory.
const fileName = "keycache.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS table_keys (
	url                TEXT PRIMARY KEY,
	collection_id      TEXT NOT NULL,
	collection_view_id TEXT NOT NULL,
	cached_at          TEXT NOT NULL
);
`

// Store is a persistent url → table-key mapping.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed and opens (or initializes) the
// cache database inside it.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, fileName))
	if err != nil {
		return nil, fmt.Errorf("open key cache: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init key cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get looks up the table keys cached for url.
// Returns types.ErrKeyNotCached when there is no entry.
func (s *Store) Get(url string) (types.TableKeySet, error) {
	row := s.db.QueryRow(
		"SELECT collection_id, collection_view_id FROM table_keys WHERE url = ?", url)

	var keys types.TableKeySet
	if err := row.Scan(&keys.CollectionID, &keys.CollectionViewID); err != nil {
		if err == sql.ErrNoRows {
			return types.TableKeySet{}, types.ErrKeyNotCached
		}
		return types.TableKeySet{}, fmt.Errorf("read key cache: %w", err)
	}
	return keys, nil
}

// Put stores (or replaces) the table keys for url.
func (s *Store) Put(url string, keys types.TableKeySet) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO table_keys (url, collection_id, collection_view_id, cached_at) VALUES (?, ?, ?, ?)",
		url, keys.CollectionID, keys.CollectionViewID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write key cache: %w", err)
	}
	return nil
}

// All returns every cached entry.
func (s *Store) All() (map[string]types.TableKeySet, error) {
	rows, err := s.db.Query("SELECT url, collection_id, collection_view_id FROM table_keys")
	if err != nil {
		return nil, fmt.Errorf("read key cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	all := make(map[string]types.TableKeySet)
	for rows.Next() {
		var url string
		var keys types.TableKeySet
		if err := rows.Scan(&url, &keys.CollectionID, &keys.CollectionViewID); err != nil {
			return nil, fmt.Errorf("scan key cache row: %w", err)
		}
		all[url] = keys
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate key cache: %w", err)
	}
	return all, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
