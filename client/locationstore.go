package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LocationStore persists the selected store location between processes, the
// way the dashboard keeps it in local storage.
type LocationStore interface {
	Get() (string, error)
	Set(locationID string) error
	Clear() error
}

// FileLocationStore keeps the selected location id in a single file.
type FileLocationStore struct {
	mu   sync.Mutex
	path string
}

// NewFileLocationStore builds a store backed by the given file path. When
// path is empty the file lives under the user config dir.
func NewFileLocationStore(path string) (*FileLocationStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		trimmed = filepath.Join(configDir, "caldera", "selected-location-id")
	}
	return &FileLocationStore{path: trimmed}, nil
}

// Get returns the persisted location id, or "" when none is selected.
func (s *FileLocationStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// Set persists the location id, creating parent directories as needed.
func (s *FileLocationStore) Set(locationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(strings.TrimSpace(locationID)), 0o600)
}

// Clear removes the persisted selection. Missing files are not an error.
func (s *FileLocationStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryLocationStore holds the selection in memory only.
type MemoryLocationStore struct {
	mu sync.Mutex
	id string
}

func (s *MemoryLocationStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *MemoryLocationStore) Set(locationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = strings.TrimSpace(locationID)
	return nil
}

func (s *MemoryLocationStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	return nil
}
