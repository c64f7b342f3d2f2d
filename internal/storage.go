package internal

import (
	"database/sql"
	"sync"
)

// TokenKey is the fixed storage key for the credential token
const TokenKey = "token"

// TokenStore persists the single credential token.
// Token returns "" when no token is stored.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// Storage is the SQLite-backed TokenStore
type Storage struct {
	db   *sql.DB
	path string
}

// NewStorage wraps an open database. path is only used in error messages.
func NewStorage(db *sql.DB, path string) *Storage {
	return &Storage{db: db, path: path}
}

// OpenStorage opens the database at path and returns a Storage over it
func OpenStorage(path string) (*Storage, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	return NewStorage(db, path), nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database location
func (s *Storage) Path() string {
	return s.path
}

// Token loads the stored token
func (s *Storage) Token() (string, error) {
	token, _, err := QueryKV(s.db, TokenKey)
	if err != nil {
		return "", &StorageError{Path: s.path, Op: "get", Err: err}
	}
	return token, nil
}

// SetToken replaces the stored token. An empty token clears it.
func (s *Storage) SetToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}
	if err := UpsertKV(s.db, TokenKey, token); err != nil {
		return &StorageError{Path: s.path, Op: "set", Err: err}
	}
	return nil
}

// ClearToken removes the stored token
func (s *Storage) ClearToken() error {
	if err := DeleteKV(s.db, TokenKey); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// MemoryTokenStore keeps the token in memory; used by tests and --ephemeral runs
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore returns a store preloaded with token (may be "")
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryTokenStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokenStore) ClearToken() error {
	return m.SetToken("")
}
