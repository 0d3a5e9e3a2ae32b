// Package gitcfg reads and writes the global git identity through the
// system git binary.
package gitcfg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmarrero/ghswitch/internal/execx"
)

// ErrGitConfig indicates the git binary is missing or a config command failed.
var ErrGitConfig = errors.New("git configuration failure")

// Manager wraps global git config access.
type Manager struct {
	runner execx.Runner
}

// New creates a Manager using the given runner.
func New(runner execx.Runner) *Manager {
	return &Manager{runner: runner}
}

// NewDefault creates a Manager backed by the real git binary.
func NewDefault() *Manager {
	return New(execx.NewRunner())
}

// Current returns the global user.name and user.email. Unset values and
// subprocess failures both yield empty strings; reads are best-effort.
func (m *Manager) Current(ctx context.Context) (string, string) {
	return m.readValue(ctx, "user.name"), m.readValue(ctx, "user.email")
}

// Backup captures the current identity so it can be restored later.
func (m *Manager) Backup(ctx context.Context) (string, string) {
	return m.Current(ctx)
}

func (m *Manager) readValue(ctx context.Context, key string) string {
	res, err := m.runner.Run(ctx, execx.Options{
		Name: "git",
		Args: []string{"config", "--global", key},
	})
	if err != nil || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}

// Set writes both global identity values.
func (m *Manager) Set(ctx context.Context, name, email string) error {
	if err := m.setValue(ctx, "user.name", name); err != nil {
		return err
	}
	return m.setValue(ctx, "user.email", email)
}

func (m *Manager) setValue(ctx context.Context, key, value string) error {
	res, err := m.runner.Run(ctx, execx.Options{
		Name: "git",
		Args: []string{"config", "--global", key, value},
	})
	if err != nil {
		return fmt.Errorf("%w: setting %s: %v", ErrGitConfig, key, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: setting %s: %s", ErrGitConfig, key, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// Restore puts identity values back, unsetting any that are empty. Used to
// roll back to an identity captured with Backup.
func (m *Manager) Restore(ctx context.Context, name, email string) error {
	if err := m.restoreValue(ctx, "user.name", name); err != nil {
		return err
	}
	return m.restoreValue(ctx, "user.email", email)
}

func (m *Manager) restoreValue(ctx context.Context, key, value string) error {
	if value != "" {
		return m.setValue(ctx, key, value)
	}
	// Unsetting an already-unset key exits non-zero; only environment
	// failures matter here.
	_, err := m.runner.Run(ctx, execx.Options{
		Name: "git",
		Args: []string{"config", "--global", "--unset", key},
	})
	if err != nil {
		return fmt.Errorf("%w: unsetting %s: %v", ErrGitConfig, key, err)
	}
	return nil
}

// Validate re-reads both values and compares them against the expected ones.
func (m *Manager) Validate(ctx context.Context, name, email string) bool {
	gotName, gotEmail := m.Current(ctx)
	return gotName == name && gotEmail == email
}

// Available reports whether the git binary can be executed.
func (m *Manager) Available(ctx context.Context) bool {
	res, err := m.runner.Run(ctx, execx.Options{
		Name: "git",
		Args: []string{"--version"},
	})
	return err == nil && res.ExitCode == 0
}

// Version returns the git version string, or empty when unavailable.
func (m *Manager) Version(ctx context.Context) string {
	res, err := m.runner.Run(ctx, execx.Options{
		Name: "git",
		Args: []string{"--version"},
	})
	if err != nil || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}
