// Package storage persists a store to a single local file.
package storage

import "github.com/starford/ficor/internal/store"

// Provider is the interface for store file operations.
type Provider interface {
	// Init writes an empty store, replacing any existing file.
	Init() error
	// Load reads and decodes the whole store file.
	Load() (*store.Store, error)
	// Save atomically replaces the store file with the encoding of s.
	Save(s *store.Store) error
}

var _ Provider = (*File)(nil)
