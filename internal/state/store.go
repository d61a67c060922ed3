// Package state provides persistent key/value storage for scripts, backed by
// SQLite. Values are stored as opaque text; callers choose the encoding.
package state

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Store defines the key/value operations exposed to scripts.
type Store interface {
	// Set inserts or replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. It reports whether a value was removed.
	Delete(ctx context.Context, key string) (bool, error)

	// Keys returns every stored key in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases the underlying database.
	Close() error
}
