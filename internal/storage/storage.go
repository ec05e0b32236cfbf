// Package storage wires the configured key-value backend.
package storage

import (
	"fmt"

	"github.com/nftmarketd/nftmarketd/internal/storage/database"
	"github.com/nftmarketd/nftmarketd/internal/storage/database/bbolt"
	"github.com/nftmarketd/nftmarketd/internal/storage/database/memory"
	"github.com/nftmarketd/nftmarketd/internal/storage/database/pebble"
)

// Supported backend names.
const (
	BackendPebble = "pebble"
	BackendBbolt  = "bbolt"
	BackendMemory = "memory"
)

// NewManager creates the database manager for the named backend. The path
// is ignored by the memory backend.
func NewManager(backend, path string) (database.Manager, error) {
	switch backend {
	case BackendPebble:
		return pebble.NewManager(path), nil
	case BackendBbolt:
		return bbolt.NewManager(path), nil
	case BackendMemory:
		return memory.NewManager(), nil
	default:
		return nil, fmt.Errorf("%w: %q", database.ErrUnknownBackend, backend)
	}
}
