package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-chart-dashboard/internal/model"
)

// SQLiteStore keeps one snapshot row per key in a snapshots table.
// Pass ":memory:" as the path to keep everything in RAM (tests do).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the snapshot database at dbPath, creating the schema on
// first use
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %s: %w", dbPath, err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load returns the snapshot stored under key. A blob that no longer parses
// is deleted on the spot and reported as ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*model.Snapshot, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM snapshots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		// Corrupt entry: remove it and report the key as absent
		if _, delErr := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); delErr != nil {
			return nil, delErr
		}
		fmt.Printf("❌ Store: dropped corrupt snapshot under %s: %v\n", key, err)
		return nil, ErrNotFound
	}
	return &snap, nil
}

// Save writes the snapshot under key, replacing any previous value
func (s *SQLiteStore) Save(ctx context.Context, key string, snap *model.Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), now)
	return err
}

// Delete removes the snapshot under key; deleting an absent key is fine
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	return err
}

// Close releases the underlying database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
