// ABOUTME: Named blob slots for whole-collection persistence
// ABOUTME: BlobStore interface with SQLite and Badger implementations
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("slot not found")

// BlobStore holds opaque values under string keys. Values are replaced whole.
type BlobStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Open returns the blob store for the named backend ("sqlite" or "badger").
func Open(backend, path string) (BlobStore, error) {
	switch backend {
	case "", "sqlite":
		return OpenSQLiteStore(path)
	case "badger":
		return OpenBadgerStore(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (valid: sqlite, badger)", backend)
	}
}

type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) a SQLite file at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	database, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: database}, nil
}

// NewSQLiteStore wraps an already-open database. The schema is initialized.
func NewSQLiteStore(database *sql.DB) (*SQLiteStore, error) {
	if err := InitSchema(database); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: database}, nil
}

func (s *SQLiteStore) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM kv_slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *SQLiteStore) Put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
