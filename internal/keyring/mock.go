package keyring

import "sync"

// MockStore is an in-memory keyring implementation for testing.
type MockStore struct {
	mu      sync.RWMutex
	data    map[string]string
	failing bool
}

// NewMockStore creates a new mock keyring store.
func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]string)}
}

// SetFailing makes all operations fail.
func (m *MockStore) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// Set implements Store.
func (m *MockStore) Set(profile, passphrase string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrUnavailable
	}
	if profile == "" {
		return ErrNotFound
	}
	m.data[profile] = passphrase
	return nil
}

// Get implements Store.
func (m *MockStore) Get(profile string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failing {
		return "", ErrUnavailable
	}
	passphrase, ok := m.data[profile]
	if !ok {
		return "", ErrNotFound
	}
	return passphrase, nil
}

// Delete implements Store.
func (m *MockStore) Delete(profile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return ErrUnavailable
	}
	delete(m.data, profile)
	return nil
}

// Count returns the number of stored passphrases.
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
