package keyring

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmarrero/ghswitch/internal/utils"
)

// FileStore is a file-based keyring implementation for testing. It stores
// passphrases in files within a directory and must never be used outside
// test environments.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates a new file-based keyring store.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keyring directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(profile string) string {
	return filepath.Join(f.dir, utils.SanitizeFilename(profile))
}

// Set implements Store.
func (f *FileStore) Set(profile, passphrase string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if profile == "" {
		return ErrNotFound
	}
	return os.WriteFile(f.path(profile), []byte(passphrase), 0600)
}

// Get implements Store.
func (f *FileStore) Get(profile string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if profile == "" {
		return "", ErrNotFound
	}
	data, err := os.ReadFile(f.path(profile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(data), nil
}

// Delete implements Store.
func (f *FileStore) Delete(profile string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if profile == "" {
		return nil
	}
	err := os.Remove(f.path(profile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete passphrase: %w", err)
	}
	return nil
}
