package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateSQLiteFixture creates a credential database at dbPath holding token (skipped when empty)
func CreateSQLiteFixture(t *testing.T, dbPath, token string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(kvTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if token == "" {
		return
	}
	if _, err := db.Exec("INSERT INTO kv (key, value) VALUES ('token', ?)", token); err != nil {
		t.Fatalf("Failed to insert token: %v", err)
	}
}

// SeedNote describes a note preloaded into the fake API
type SeedNote struct {
	Title   string
	Content string
	Tags    []string
	Starred bool
}

// DefaultSeedNotes is a small note set covering tags and stars
func DefaultSeedNotes() []SeedNote {
	return []SeedNote{
		{Title: "Groceries", Content: "milk, eggs, bread", Tags: []string{"personal"}},
		{Title: "Sprint planning", Content: "estimate the backlog", Tags: []string{"work", "meetings"}, Starred: true},
		{Title: "Reading list", Content: "The Go Programming Language", Tags: []string{"personal", "books"}},
	}
}
