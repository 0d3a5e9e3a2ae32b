package utils

import "strings"

// SanitizeFilename makes a string safe for use as a file name fragment.
// Anything outside [A-Za-z0-9._-] becomes an underscore.
func SanitizeFilename(name string) string {
	result := make([]byte, len(name))
	for i, c := range []byte(name) {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '-' || c == '.' {
			result[i] = c
		} else {
			result[i] = '_'
		}
	}
	return string(result)
}

// ContainsAny checks if s contains any of the substrings (case-insensitive).
func ContainsAny(s string, substrings ...string) bool {
	sLower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(sLower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// ValidSSHPublicKey reports whether s looks like an OpenSSH public key line:
// a known key type followed by a base64 blob.
func ValidSSHPublicKey(s string) bool {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) < 2 {
		return false
	}
	switch fields[0] {
	case "ssh-ed25519", "ssh-rsa", "ecdsa-sha2-nistp256",
		"ecdsa-sha2-nistp384", "ecdsa-sha2-nistp521", "ssh-dss":
	default:
		return false
	}
	return len(fields[1]) > 0
}
