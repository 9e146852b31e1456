package preset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists each key as one JSON file under a directory.
// Writes go through a temp file and rename so a crashed write never
// leaves a truncated blob behind.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("preset: failed to create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, key string) ([]Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("preset: failed to read %q: %w", key, err)
	}
	return decodeList(data), nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, key string, presets []Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeList(presets)
	if err != nil {
		return fmt.Errorf("preset: failed to encode %q: %w", key, err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("preset: failed to write %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("preset: failed to replace %q: %w", key, err)
	}
	return nil
}

// path maps a storage key to a file name, escaping separators.
func (s *FileStore) path(key string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}
