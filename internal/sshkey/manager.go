// Package sshkey owns all mutation and inspection of the user's SSH state:
// profile keypairs, the managed stanzas inside ~/.ssh/config, agent
// interaction and GitHub reachability probing.
package sshkey

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/dmarrero/ghswitch/internal/config"
	"github.com/dmarrero/ghswitch/internal/execx"
	"github.com/dmarrero/ghswitch/internal/utils"
)

// KeyType is the key algorithm used for generated profile keys.
const KeyType = "ed25519"

var (
	// ErrKeyExists indicates a key already occupies a profile's key path.
	ErrKeyExists = errors.New("ssh key already exists")
	// ErrKeyNotFound indicates a referenced key file does not exist.
	ErrKeyNotFound = errors.New("ssh key files not found")
	// ErrKeyGeneration wraps failures while generating or writing a keypair.
	ErrKeyGeneration = errors.New("ssh key generation failed")
)

// Manager operates on a single SSH directory.
type Manager struct {
	sshDir     string
	configFile string
	runner     execx.Runner
}

// New creates a Manager for the given SSH directory.
func New(sshDir string, runner execx.Runner) *Manager {
	return &Manager{
		sshDir:     sshDir,
		configFile: filepath.Join(sshDir, "config"),
		runner:     runner,
	}
}

// NewDefault creates a Manager for the user's SSH directory.
func NewDefault() *Manager {
	return New(config.GetPaths().SSHDir, execx.NewRunner())
}

// Dir returns the SSH directory path.
func (m *Manager) Dir() string {
	return m.sshDir
}

// ConfigFile returns the SSH client config file path.
func (m *Manager) ConfigFile() string {
	return m.configFile
}

// EnsureSetup creates the SSH directory with owner-only permissions and,
// if a config file already exists and has never been backed up, copies it
// once to a fixed backup name. Idempotent.
func (m *Manager) EnsureSetup() error {
	if err := utils.EnsureDirectory(m.sshDir, 0700); err != nil {
		return err
	}

	backup := filepath.Join(m.sshDir, config.SSHConfigBackupName)
	if _, err := os.Stat(backup); err == nil {
		return nil
	}
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		// No pre-existing config, nothing to back up.
		return nil
	}
	return os.WriteFile(backup, data, 0600)
}

// KeyPath returns the deterministic private key path for a profile.
func (m *Manager) KeyPath(profile string) string {
	return filepath.Join(m.sshDir, "id_"+KeyType+"_"+utils.SanitizeFilename(profile))
}

// PublicKey returns the profile's public key line, or empty when the .pub
// file is missing or unreadable.
func (m *Manager) PublicKey(profile string) string {
	data, err := os.ReadFile(m.KeyPath(profile) + ".pub")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// CopyPublicKeyToClipboard places the profile's public key on the system
// clipboard. Returns false if the key is missing or the clipboard is
// unavailable.
func (m *Manager) CopyPublicKeyToClipboard(profile string) bool {
	pub := m.PublicKey(profile)
	if pub == "" {
		return false
	}
	return clipboard.WriteAll(pub) == nil
}

// RemoveKey deletes a profile's private and public key files. Missing files
// and permission failures are swallowed so cleanup never blocks a delete.
func (m *Manager) RemoveKey(path string) {
	utils.SafeRemoveFile(path)
	utils.SafeRemoveFile(path + ".pub")
}
