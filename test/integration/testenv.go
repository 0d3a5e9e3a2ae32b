//go:build integration

// Package integration provides integration tests for ghswitch.
package integration

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestEnv is an isolated environment for one test: its own config dir,
// SSH dir, keyring dir and a stub git binary on PATH that records its
// invocations instead of touching the real global config.
type TestEnv struct {
	ConfigDir  string
	SSHDir     string
	KeyringDir string
	GitLog     string

	binDir string
}

// NewTestEnv builds an isolated environment under t.TempDir().
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	root := t.TempDir()
	env := &TestEnv{
		ConfigDir:  filepath.Join(root, "config"),
		SSHDir:     filepath.Join(root, "ssh"),
		KeyringDir: filepath.Join(root, "keyring"),
		GitLog:     filepath.Join(root, "git.log"),
		binDir:     filepath.Join(root, "bin"),
	}
	for _, dir := range []string{env.ConfigDir, env.SSHDir, env.KeyringDir, env.binDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}

	env.installStubGit(t)
	return env
}

// installStubGit writes a git replacement that appends its arguments to
// GitLog and succeeds. "config --global <key>" reads print nothing and
// exit 1, mimicking an unset key.
func (e *TestEnv) installStubGit(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub git not supported on windows")
	}

	script := "#!/bin/sh\n" +
		"echo \"$@\" >> " + e.GitLog + "\n" +
		"case \"$*\" in\n" +
		"  \"config --global user.name\"|\"config --global user.email\") exit 1 ;;\n" +
		"  \"--version\") echo \"git version 2.43.0\" ;;\n" +
		"esac\n" +
		"exit 0\n"
	path := filepath.Join(e.binDir, "git")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to install stub git: %v", err)
	}
}

// GitCalls returns the recorded stub git invocations, one per line.
func (e *TestEnv) GitCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.GitLog)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("failed to read git log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

// Run executes the ghswitch binary inside this environment.
func (e *TestEnv) Run(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.CommandContext(ctx, BinaryPath(t), args...)
	cmd.Env = append(os.Environ(),
		"PATH="+e.binDir+string(os.PathListSeparator)+os.Getenv("PATH"),
		"GHSWITCH_CONFIG_DIR="+e.ConfigDir,
		"GHSWITCH_SSH_DIR="+e.SSHDir,
		"GHSWITCH_TEST_KEYRING_DIR="+e.KeyringDir,
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// BinaryPath returns the path to the ghswitch binary.
func BinaryPath(t *testing.T) string {
	t.Helper()

	if path := os.Getenv("GHSWITCH_BINARY"); path != "" {
		return path
	}

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller information")
	}

	// Go up from test/integration to project root
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	binaryPath := filepath.Join(projectRoot, "bin", "ghswitch")

	if runtime.GOOS == "windows" {
		binaryPath += ".exe"
	}

	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("ghswitch binary not found at %s - build it first", binaryPath)
	}

	return binaryPath
}
