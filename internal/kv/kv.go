// Package kv provides small durable key-value stores.
//
// Values are opaque byte strings. Two backends are available: a single
// JSON file guarded by an advisory lock, and a SQLite database. A memory
// store backs tests and dry runs.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a string-keyed byte store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Close releases resources held by the store.
	Close() error
}

// Backends returns the supported backend names.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open opens a store for the named backend. The path is ignored for the
// memory backend.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendFile, "":
		s, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q, must be one of: %s", backend, strings.Join(Backends(), ", "))
	}
}
