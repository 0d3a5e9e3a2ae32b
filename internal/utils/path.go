// Package utils provides small shared helpers for ghswitch.
package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading tilde and resolves the path to absolute form.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// EnsureDirectory creates a directory (and parents) with the given mode.
func EnsureDirectory(path string, mode os.FileMode) error {
	if err := os.MkdirAll(path, mode); err != nil {
		return err
	}
	// MkdirAll does not tighten permissions on an existing directory.
	return os.Chmod(path, mode)
}

// SafeRemoveFile deletes a file, treating "does not exist" as success.
// Returns false only for genuine removal failures.
func SafeRemoveFile(path string) bool {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return false
	}
	return true
}
