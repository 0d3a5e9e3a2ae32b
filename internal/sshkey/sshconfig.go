package sshkey

import (
	"fmt"
	"os"
	"strings"
)

// stanzaMarker is the comment identifying a managed config block.
func stanzaMarker(profile string) string {
	return fmt.Sprintf("# GitHub Switcher - %s profile", profile)
}

// HostAlias returns the SSH host alias routed through a profile's key.
func HostAlias(profile string) string {
	return "github-" + profile
}

// renderStanza produces the managed block for a profile.
func renderStanza(profile, keyPath string) string {
	return stanzaMarker(profile) + "\n" +
		"Host " + HostAlias(profile) + "\n" +
		"    HostName github.com\n" +
		"    User git\n" +
		"    IdentityFile " + keyPath + "\n" +
		"    IdentitiesOnly yes\n"
}

// Activate adds or replaces the managed stanza for a profile, preserving
// every unrelated line in the config file. Idempotent: a second call with a
// different key path replaces the previous stanza rather than duplicating it.
func (m *Manager) Activate(profile, keyPath string) error {
	content := m.readConfig()
	content = removeStanza(content, profile)

	base := strings.TrimRight(content, "\n")
	if base != "" {
		base += "\n\n"
	}

	return m.writeConfig(base + renderStanza(profile, keyPath))
}

// Deactivate removes exactly the managed stanza for a profile. No-op when
// no config file exists.
func (m *Manager) Deactivate(profile string) error {
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading ssh config: %w", err)
	}

	return m.writeConfig(removeStanza(string(data), profile))
}

// UpdateDefaultHost points the bare "Host github.com" entry's IdentityFile
// at keyPath, creating the block when it does not exist. Used when adopting
// a pre-existing default GitHub setup.
func (m *Manager) UpdateDefaultHost(keyPath string) error {
	content := m.readConfig()
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if strings.TrimSpace(line) != "Host github.com" {
			continue
		}
		// Rewrite the IdentityFile inside this block, or insert one.
		for j := i + 1; ; j++ {
			if j >= len(lines) || isBlockBoundary(lines[j]) {
				lines = append(lines[:j], append([]string{"    IdentityFile " + keyPath}, lines[j:]...)...)
				break
			}
			if strings.HasPrefix(strings.TrimSpace(lines[j]), "IdentityFile ") {
				lines[j] = "    IdentityFile " + keyPath
				break
			}
		}
		return m.writeConfig(strings.Join(lines, "\n"))
	}

	base := strings.TrimRight(content, "\n")
	if base != "" {
		base += "\n\n"
	}
	block := "Host github.com\n" +
		"    HostName github.com\n" +
		"    User git\n" +
		"    IdentityFile " + keyPath + "\n" +
		"    IdentitiesOnly yes\n"
	return m.writeConfig(base + block)
}

// UpdateKeyPaths rewrites IdentityFile references after a key file moves.
// No-op when no config file exists.
func (m *Manager) UpdateKeyPaths(oldPath, newPath string) error {
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading ssh config: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "IdentityFile ") &&
			strings.TrimSpace(strings.TrimPrefix(trimmed, "IdentityFile")) == oldPath {
			lines[i] = strings.Replace(line, oldPath, newPath, 1)
		}
	}
	return m.writeConfig(strings.Join(lines, "\n"))
}

func (m *Manager) readConfig() string {
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return ""
	}
	return string(data)
}

func (m *Manager) writeConfig(content string) error {
	if err := os.WriteFile(m.configFile, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing ssh config: %w", err)
	}
	// WriteFile only applies the mode on create; tighten pre-existing files.
	if err := os.Chmod(m.configFile, 0600); err != nil {
		return fmt.Errorf("setting ssh config mode: %w", err)
	}
	return nil
}

// isBlockBoundary reports whether a line starts a new top-level entry,
// ending the indented body of the current Host block.
func isBlockBoundary(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	return !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t")
}

// removeStanza strips the managed block for a profile: the marker comment,
// its Host block and one following blank separator. Everything else is
// passed through byte for byte.
func removeStanza(content, profile string) string {
	if content == "" {
		return content
	}

	marker := stanzaMarker(profile)
	hostLine := "Host " + HostAlias(profile)
	lines := strings.Split(content, "\n")

	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != marker {
			out = append(out, lines[i])
			continue
		}

		// Skip the marker. If the expected Host block follows, skip its
		// indented body and a single trailing blank line.
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == hostLine {
			i++
			for i+1 < len(lines) && !isBlockBoundary(lines[i+1]) {
				i++
			}
			if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
				i++
			}
		}
	}

	return strings.Join(out, "\n")
}
