package preset

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store.
// Safe for concurrent use. Useful for tests and for builders that
// want preset management without durability.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]Preset
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]Preset)}
}

// Load implements Store.
func (s *MemoryStore) Load(ctx context.Context, key string) ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePresets(s.blobs[key]), nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, key string, presets []Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = clonePresets(presets)
	return nil
}
