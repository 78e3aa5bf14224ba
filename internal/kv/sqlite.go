package kv

import (
	"database/sql"
	"errors"
	"fmt"
)

// SQLite is a Store backed by the kv_entries table.
type SQLite struct {
	db *sql.DB
}

// NewSQLite creates a key-value store over an opened database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Get reads the raw value for key.
func (s *SQLite) Get(key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_entries WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %q: %w: %w", key, ErrUnavailable, err)
	}
	return []byte(value), true, nil
}

// Set writes the full value for key in a single statement.
func (s *SQLite) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("writing key %q: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}
