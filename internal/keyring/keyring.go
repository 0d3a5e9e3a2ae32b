// Package keyring stores SSH key passphrases in the OS keyring so that a
// passphrase-protected profile key can be loaded into the agent without
// re-prompting on every switch.
package keyring

import (
	"errors"
	"fmt"
	"os"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/dmarrero/ghswitch/internal/utils"
)

const (
	// ServicePrefix is the prefix used for keyring service names. Each
	// profile gets its own entry: "GitHub Switcher - <profile>".
	ServicePrefix = "GitHub Switcher"

	// TestKeyringEnvVar, when set to a directory path, switches to a
	// file-based keyring. Intended for tests only.
	TestKeyringEnvVar = "GHSWITCH_TEST_KEYRING_DIR"
)

var (
	// ErrUnavailable is returned when no secure keyring is available.
	ErrUnavailable = errors.New("secure keyring is not available on this system")
	// ErrNotFound is returned when no passphrase is stored for a profile.
	ErrNotFound = errors.New("passphrase not found in keyring")
)

// serviceName returns the keyring service name for a profile.
func serviceName(profile string) string {
	return ServicePrefix + " - " + profile
}

// Store is a secure passphrase storage backend.
type Store interface {
	// Set stores a passphrase for a profile.
	Set(profile, passphrase string) error
	// Get retrieves the passphrase stored for a profile.
	Get(profile string) (string, error)
	// Delete removes the passphrase stored for a profile.
	Delete(profile string) error
}

// DefaultStore returns the keyring store for the current platform. If
// GHSWITCH_TEST_KEYRING_DIR is set, a file-based store is used instead.
func DefaultStore() Store {
	if testDir := os.Getenv(TestKeyringEnvVar); testDir != "" {
		if fileStore, err := NewFileStore(testDir); err == nil {
			return fileStore
		}
	}
	return &osKeyring{}
}

// osKeyring implements Store using the OS keyring.
type osKeyring struct{}

func (k *osKeyring) Set(profile, passphrase string) error {
	if profile == "" {
		return errors.New("profile name cannot be empty")
	}
	if passphrase == "" {
		return errors.New("passphrase cannot be empty")
	}

	if err := gokeyring.Set(serviceName(profile), profile, passphrase); err != nil {
		return wrapKeyringError(err, "failed to store passphrase")
	}
	return nil
}

func (k *osKeyring) Get(profile string) (string, error) {
	if profile == "" {
		return "", errors.New("profile name cannot be empty")
	}

	passphrase, err := gokeyring.Get(serviceName(profile), profile)
	if err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", wrapKeyringError(err, "failed to retrieve passphrase")
	}
	return passphrase, nil
}

func (k *osKeyring) Delete(profile string) error {
	if profile == "" {
		return nil
	}

	if err := gokeyring.Delete(serviceName(profile), profile); err != nil {
		if errors.Is(err, gokeyring.ErrNotFound) {
			// Already gone, not an error.
			return nil
		}
		return wrapKeyringError(err, "failed to delete passphrase")
	}
	return nil
}

// wrapKeyringError maps backend errors onto the package sentinels.
func wrapKeyringError(err error, context string) error {
	if err == nil {
		return nil
	}

	if utils.ContainsAny(err.Error(),
		"secret service", "dbus", "keychain", "credential", "no keyring", "unavailable") {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, context, err)
	}
	return fmt.Errorf("%s: %w", context, err)
}
