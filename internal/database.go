package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createKVTableSQL = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// OpenDatabase opens (creating if needed) the SQLite key/value database at path
func OpenDatabase(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the kv table if missing
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(createKVTableSQL); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

// QueryKV returns the value stored under key, and whether it exists
func QueryKV(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	return value.String, value.Valid, nil
}

// UpsertKV stores value under key, replacing any previous value
func UpsertKV(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

// DeleteKV removes key; deleting a missing key is not an error
func DeleteKV(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}
