// Package config provides path resolution for ghswitch.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// AppName is the application name used for directories.
	AppName = "github-switcher"
	// ProfilesFileName is the profile registry file name.
	ProfilesFileName = "profiles.toml"
	// SSHConfigBackupName is the one-time backup of the user's SSH config,
	// taken before ghswitch touches the file for the first time.
	SSHConfigBackupName = "config.github-switcher-backup"
)

// Paths holds all the application paths.
type Paths struct {
	ConfigDir    string
	ProfilesFile string
	SSHDir       string
	SSHConfig    string
}

// GetPaths returns the application paths following the XDG Base Directory
// specification, plus the user's SSH directory.
func GetPaths() Paths {
	configDir := getConfigDir()
	sshDir := getSSHDir()
	return Paths{
		ConfigDir:    configDir,
		ProfilesFile: filepath.Join(configDir, ProfilesFileName),
		SSHDir:       sshDir,
		SSHConfig:    filepath.Join(sshDir, "config"),
	}
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	// Check for explicit override
	if dir := os.Getenv("GHSWITCH_CONFIG_DIR"); dir != "" {
		return dir
	}

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, "AppData", "Roaming", AppName)
		}
	case "darwin":
		// macOS: prefer XDG, fallback to ~/Library/Application Support
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, AppName)
		}
		if home := os.Getenv("HOME"); home != "" {
			// Check if ~/.config/github-switcher exists, use it if so
			xdgPath := filepath.Join(home, ".config", AppName)
			if _, err := os.Stat(xdgPath); err == nil {
				return xdgPath
			}
			return filepath.Join(home, "Library", "Application Support", AppName)
		}
	default:
		// Linux and other Unix-like systems: follow XDG
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, AppName)
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", AppName)
		}
	}

	// Last resort fallback
	return filepath.Join(".", "."+AppName)
}

// getSSHDir returns the user's SSH directory.
func getSSHDir() string {
	if dir := os.Getenv("GHSWITCH_SSH_DIR"); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ssh")
	}
	return filepath.Join(home, ".ssh")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func (p Paths) EnsureConfigDir() error {
	return os.MkdirAll(p.ConfigDir, 0700)
}
