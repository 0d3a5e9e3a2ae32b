package sshkey

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmarrero/ghswitch/internal/execx"
)

const (
	agentListTimeout = 5 * time.Second
	agentAddTimeout  = 30 * time.Second
)

// ListAgentFingerprints enumerates the fingerprints of keys loaded in the
// SSH agent. Returns an empty list when the agent is absent or times out.
func (m *Manager) ListAgentFingerprints(ctx context.Context) []string {
	res, err := m.runner.Run(ctx, execx.Options{
		Name:    "ssh-add",
		Args:    []string{"-l"},
		Timeout: agentListTimeout,
	})
	if err != nil || res.ExitCode != 0 {
		return nil
	}

	var fingerprints []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			fingerprints = append(fingerprints, fields[1])
		}
	}
	return fingerprints
}

// KeyInAgent reports whether the key at path is loaded in the SSH agent.
func (m *Manager) KeyInAgent(ctx context.Context, path string) bool {
	fp := m.Fingerprint(path)
	if fp == "" {
		return false
	}

	res, err := m.runner.Run(ctx, execx.Options{
		Name:    "ssh-add",
		Args:    []string{"-l"},
		Timeout: agentListTimeout,
	})
	if err != nil || res.ExitCode != 0 {
		return false
	}
	return strings.Contains(res.Stdout, fp)
}

// AddToAgent attempts to load a key into the SSH agent, answering a
// passphrase prompt with the given passphrase (empty for unprotected keys).
func (m *Manager) AddToAgent(ctx context.Context, path, passphrase string) bool {
	res, err := m.runner.Run(ctx, execx.Options{
		Name:    "ssh-add",
		Args:    []string{path},
		Stdin:   passphrase + "\n",
		Timeout: agentAddTimeout,
	})
	return err == nil && res.ExitCode == 0
}

// TestConnection verifies that a profile's key authenticates to GitHub via
// its host alias. A passphrase-protected key that is not loaded in the
// agent fails fast with instructions instead of attempting the handshake.
func (m *Manager) TestConnection(ctx context.Context, profile string) (bool, string) {
	keyPath := m.KeyPath(profile)
	if _, err := os.Stat(keyPath); err != nil {
		return false, fmt.Sprintf("SSH key not found for profile %q", profile)
	}

	if m.PassphraseProtected(keyPath) && !m.KeyInAgent(ctx, keyPath) {
		return false, fmt.Sprintf(
			"Key is passphrase-protected and not loaded in the SSH agent. Run: ssh-add %s", keyPath)
	}

	if m.probeGitHub(ctx, "git@"+HostAlias(profile)) {
		return true, "Connection successful - authenticated to GitHub"
	}
	return false, "Connection failed - could not authenticate to GitHub"
}
