package sshkey

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmarrero/ghswitch/internal/execx"
	"github.com/dmarrero/ghswitch/internal/utils"
)

// defaultKeyNames are conventional key file names that SSH tries
// automatically, so they count as likely GitHub keys even without
// explicit markers.
var defaultKeyNames = map[string]bool{
	"id_ed25519": true,
	"id_rsa":     true,
	"id_ecdsa":   true,
	"id_dsa":     true,
}

// githubCompatibleTypes are key algorithms GitHub accepts.
var githubCompatibleTypes = map[string]bool{
	"ssh-ed25519":         true,
	"ssh-rsa":             true,
	"ecdsa-sha2-nistp256": true,
	"ecdsa-sha2-nistp384": true,
	"ecdsa-sha2-nistp521": true,
}

// KeyAnalysis describes one private key found in the SSH directory.
type KeyAnalysis struct {
	Name                string
	Path                string
	Type                string
	Comment             string
	HasGitHubIndicators bool
	LikelyGitHub        bool
	GitHubCompatible    bool
}

// Report is the outcome of inspecting the user's existing GitHub SSH setup.
type Report struct {
	HasGitHubHost   bool
	ConfigEntries   []string
	GitHubKeys      []string
	AllKeys         []KeyAnalysis
	Connectivity    bool
	DefaultKeyWorks bool
	Recommendations []string
}

// DetectSetup inspects the SSH config and key files and probes live GitHub
// reachability. Never fails: every environmental problem degrades to a
// conservative default in the report.
func (m *Manager) DetectSetup(ctx context.Context) *Report {
	report := &Report{}

	for _, host := range m.configHosts() {
		if strings.Contains(host, "github") {
			report.ConfigEntries = append(report.ConfigEntries, host)
			if host == "github.com" || strings.HasPrefix(host, "github-") {
				report.HasGitHubHost = true
			}
		}
	}

	for _, keyPath := range m.privateKeys() {
		analysis := m.analyzeKey(keyPath)
		if analysis == nil {
			continue
		}
		report.AllKeys = append(report.AllKeys, *analysis)
		if analysis.HasGitHubIndicators {
			report.GitHubKeys = append(report.GitHubKeys, analysis.Name)
		}
	}

	report.Connectivity = m.probeGitHub(ctx, "git@github.com")
	report.DefaultKeyWorks = report.Connectivity && !report.HasGitHubHost

	report.Recommendations = recommendations(report)
	return report
}

// configHosts lists every Host token declared in the SSH config file.
func (m *Manager) configHosts() []string {
	data, err := os.ReadFile(m.configFile)
	if err != nil {
		return nil
	}

	var hosts []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "Host ") {
			continue
		}
		hosts = append(hosts, strings.Fields(trimmed)[1:]...)
	}
	return hosts
}

// privateKeys enumerates private key files in the SSH directory: regular
// files with a .pub sibling.
func (m *Manager) privateKeys() []string {
	entries, err := os.ReadDir(m.sshDir)
	if err != nil {
		return nil
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, ".pub") {
			continue
		}
		path := filepath.Join(m.sshDir, name)
		if _, err := os.Stat(path + ".pub"); err != nil {
			continue
		}
		keys = append(keys, path)
	}
	return keys
}

// analyzeKey classifies a private key through its .pub sibling. Returns nil
// when the public key is missing or unreadable.
func (m *Manager) analyzeKey(keyPath string) *KeyAnalysis {
	data, err := os.ReadFile(keyPath + ".pub")
	if err != nil {
		return nil
	}

	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) < 2 {
		return nil
	}

	name := filepath.Base(keyPath)
	comment := ""
	if len(fields) > 2 {
		comment = strings.Join(fields[2:], " ")
	}

	indicators := utils.ContainsAny(name, "github") || utils.ContainsAny(comment, "github")
	return &KeyAnalysis{
		Name:                name,
		Path:                keyPath,
		Type:                fields[0],
		Comment:             comment,
		HasGitHubIndicators: indicators,
		LikelyGitHub:        indicators || defaultKeyNames[name],
		GitHubCompatible:    githubCompatibleTypes[fields[0]],
	}
}

// probeGitHub performs an SSH auth handshake against target. GitHub refuses
// shells, so a successful authentication still exits non-zero with a
// recognizable phrase on stderr. Network, timeout and missing-binary
// failures all report false.
func (m *Manager) probeGitHub(ctx context.Context, target string) bool {
	res, err := m.runner.Run(ctx, execx.Options{
		Name: "ssh",
		Args: []string{
			"-T",
			"-o", "BatchMode=yes",
			"-o", "ConnectTimeout=10",
			"-o", "StrictHostKeyChecking=accept-new",
			target,
		},
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return false
	}
	return utils.ContainsAny(res.Stderr, "successfully authenticated")
}

// recommendations renders the human-readable findings. Exactly one of the
// three decision branches applies: working, configured-but-unverified, or
// nothing found.
func recommendations(r *Report) []string {
	switch {
	case r.Connectivity:
		recs := []string{"Your current SSH setup works with GitHub."}
		if r.DefaultKeyWorks {
			recs = append(recs, "A default SSH key is authenticating; ghswitch can adopt it into a profile.")
		}
		return recs
	case len(r.AllKeys) == 0:
		return []string{
			"No SSH keys detected. Create a profile to generate a GitHub-ready key.",
		}
	default:
		recs := []string{
			"Existing SSH keys found, but GitHub authentication could not be verified.",
		}
		if len(r.GitHubKeys) > 0 {
			recs = append(recs, "Keys with GitHub indicators: "+strings.Join(r.GitHubKeys, ", ")+". Import one into a profile to manage it.")
		} else {
			recs = append(recs, "None of the keys carries GitHub markers; generate a dedicated key per profile.")
		}
		return recs
	}
}
