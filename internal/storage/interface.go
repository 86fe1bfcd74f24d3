package storage

import (
	"errors"
	"strings"
)

// Provider is a key-value blob store with an explicit lifecycle. Init creates
// the backing store, Load opens an existing one.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	GetBlob(key string) ([]byte, bool, error)
	SetBlob(key string, blob []byte) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

var (
	ErrNotInitialized     = errors.New("storage not initialized, run 'habitgrid init' first")
	ErrAlreadyInitialized = errors.New("storage already initialized")
	ErrNotLoaded          = errors.New("storage not loaded")
)

// Kind identifies a storage back end
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindJSON     Kind = "json"
	KindPostgres Kind = "postgres"
)

// KindOf picks the back end for a storage location: PostgreSQL URLs, JSON
// files by extension, SQLite for everything else.
func KindOf(location string) Kind {
	l := strings.TrimSpace(location)
	switch {
	case strings.HasPrefix(l, "postgres://"), strings.HasPrefix(l, "postgresql://"):
		return KindPostgres
	case strings.HasSuffix(strings.ToLower(l), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}
