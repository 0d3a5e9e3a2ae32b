package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetPaths(t *testing.T) {
	t.Run("env overrides", func(t *testing.T) {
		configDir := t.TempDir()
		sshDir := t.TempDir()
		t.Setenv("GHSWITCH_CONFIG_DIR", configDir)
		t.Setenv("GHSWITCH_SSH_DIR", sshDir)

		paths := GetPaths()
		if paths.ConfigDir != configDir {
			t.Errorf("config dir %q, want %q", paths.ConfigDir, configDir)
		}
		if paths.ProfilesFile != filepath.Join(configDir, "profiles.toml") {
			t.Errorf("unexpected profiles file: %q", paths.ProfilesFile)
		}
		if paths.SSHDir != sshDir {
			t.Errorf("ssh dir %q, want %q", paths.SSHDir, sshDir)
		}
		if paths.SSHConfig != filepath.Join(sshDir, "config") {
			t.Errorf("unexpected ssh config: %q", paths.SSHConfig)
		}
	})

	t.Run("xdg config home", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("XDG not used on windows")
		}
		xdg := t.TempDir()
		t.Setenv("GHSWITCH_CONFIG_DIR", "")
		t.Setenv("XDG_CONFIG_HOME", xdg)

		paths := GetPaths()
		if paths.ConfigDir != filepath.Join(xdg, AppName) {
			t.Errorf("config dir %q, want under %q", paths.ConfigDir, xdg)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		if runtime.GOOS != "linux" {
			t.Skip("linux-specific fallback")
		}
		home := t.TempDir()
		t.Setenv("GHSWITCH_CONFIG_DIR", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)

		paths := GetPaths()
		if paths.ConfigDir != filepath.Join(home, ".config", AppName) {
			t.Errorf("unexpected config dir: %q", paths.ConfigDir)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", AppName)
	t.Setenv("GHSWITCH_CONFIG_DIR", dir)

	paths := GetPaths()
	if err := paths.EnsureConfigDir(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("expected mode 0700, got %o", perm)
	}
}
