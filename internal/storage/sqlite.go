// internal/storage/sqlite.go
//
// SQLite-backed KV for saved games, the durable stand-in for the
// browser's local storage: one row per device key. Opened with the
// usual safe defaults (WAL, busy timeout, foreign keys) and a single
// idempotent migration.

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const savedGamesSchema = `
CREATE TABLE IF NOT EXISTS saved_games (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

// SQLiteKV implements KV on a SQLite database file.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLiteKV opens (creating if missing) the database at dsn and
// ensures the saved_games table exists.
func OpenSQLiteKV(dsn string) (*SQLiteKV, error) {
	// Ensure directory exists for ./data/wordle.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(savedGamesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create saved_games: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteKV) Close() error { return s.db.Close() }

func (s *SQLiteKV) Get(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM saved_games WHERE key=?`, key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *SQLiteKV) Set(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO saved_games (key, value, updated_at) VALUES (?,?,?)
	                     ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, now)
	return err
}

func (s *SQLiteKV) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM saved_games WHERE key=?`, key)
	return err
}
