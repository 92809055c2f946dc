// Package store persists application state snapshots.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/black-lotus-01/data-organizer/internal/organizer"
	"github.com/black-lotus-01/data-organizer/internal/store/migrations"
)

// SQLiteStore keeps the latest snapshot as a single JSON row. The
// in-memory session state is the source of truth; this table is only a
// mirror read once at startup.
type SQLiteStore struct {
	db *sql.DB
}

var _ organizer.StateStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and migrates) a snapshot database.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating snapshot database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save overwrites the stored snapshot.
func (s *SQLiteStore) Save(snap *organizer.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return &organizer.StorageError{Op: "save", Err: err}
	}

	_, err = s.db.Exec(`
		INSERT INTO snapshots (id, data, saved_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		string(data), time.Now().UTC())
	if err != nil {
		return &organizer.StorageError{Op: "save", Err: err}
	}
	return nil
}

// Load returns the last saved snapshot, (nil, nil) when nothing was
// saved, or a *StorageError for unreadable or corrupt data. Callers
// treat any error as an absent snapshot.
func (s *SQLiteStore) Load() (*organizer.Snapshot, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &organizer.StorageError{Op: "load", Err: err}
	}

	var snap organizer.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, &organizer.StorageError{Op: "load", Err: err}
	}
	return &snap, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for tests that need to corrupt
// the stored row.
func (s *SQLiteStore) DB() *sql.DB { return s.db }
