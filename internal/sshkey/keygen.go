package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/dmarrero/ghswitch/internal/utils"
)

// Generate creates a fresh Ed25519 keypair for a profile. The private key
// is written in OpenSSH format (encrypted when passphrase is non-empty)
// with mode 600, the public key as an authorized_keys line commented with
// the profile's email, mode 644. Fails if a key already exists at the
// profile's path. On any failure no partial files are left behind.
func (m *Manager) Generate(profile, email, passphrase string) (string, string, error) {
	keyPath := m.KeyPath(profile)
	if _, err := os.Stat(keyPath); err == nil {
		return "", "", fmt.Errorf("%w: profile %q at %s", ErrKeyExists, profile, keyPath)
	}
	return m.writeNewKey(profile, email, passphrase)
}

// Regenerate replaces a profile's keypair in place with freshly generated
// material. Behaves exactly like Generate when no key exists yet.
func (m *Manager) Regenerate(profile, email, passphrase string) (string, string, error) {
	return m.writeNewKey(profile, email, passphrase)
}

func (m *Manager) writeNewKey(profile, email, passphrase string) (string, string, error) {
	keyPath := m.KeyPath(profile)
	pubPath := keyPath + ".pub"

	privatePEM, publicLine, err := marshalEd25519(email, passphrase)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	if err := os.WriteFile(keyPath, privatePEM, 0600); err != nil {
		m.RemoveKey(keyPath)
		return "", "", fmt.Errorf("%w: writing private key: %v", ErrKeyGeneration, err)
	}
	if err := os.WriteFile(pubPath, []byte(publicLine+"\n"), 0644); err != nil {
		m.RemoveKey(keyPath)
		return "", "", fmt.Errorf("%w: writing public key: %v", ErrKeyGeneration, err)
	}

	return keyPath, publicLine, nil
}

// marshalEd25519 produces an OpenSSH-encoded Ed25519 keypair. The public
// half is a single "ssh-ed25519 <base64> <comment>" line.
func marshalEd25519(comment, passphrase string) ([]byte, string, error) {
	pubKey, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, "", fmt.Errorf("generating ed25519 key pair: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pubKey)
	if err != nil {
		return nil, "", fmt.Errorf("encoding public key: %w", err)
	}
	publicLine := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		publicLine += " " + comment
	}

	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(privKey, comment)
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(privKey, comment, []byte(passphrase))
	}
	if err != nil {
		return nil, "", fmt.Errorf("encoding private key: %w", err)
	}

	return pem.EncodeToMemory(block), publicLine, nil
}

// Import copies an existing keypair to the profile's deterministic path,
// preserving the original key material and re-applying the 600/644 policy.
func (m *Manager) Import(profile, sourcePath, email string) (string, string, error) {
	sourcePub := sourcePath + ".pub"
	privData, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrKeyNotFound, sourcePath)
	}
	pubData, err := os.ReadFile(sourcePub)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrKeyNotFound, sourcePub)
	}

	keyPath := m.KeyPath(profile)
	if _, err := os.Stat(keyPath); err == nil {
		return "", "", fmt.Errorf("%w: profile %q at %s", ErrKeyExists, profile, keyPath)
	}

	if err := os.WriteFile(keyPath, privData, 0600); err != nil {
		m.RemoveKey(keyPath)
		return "", "", fmt.Errorf("importing private key: %w", err)
	}
	if err := os.WriteFile(keyPath+".pub", pubData, 0644); err != nil {
		m.RemoveKey(keyPath)
		return "", "", fmt.Errorf("importing public key: %w", err)
	}

	return keyPath, strings.TrimSpace(string(pubData)), nil
}

// Fingerprint derives a short label for the key blob of the public key next
// to path: "SHA256:" plus 16 hex characters. Returns empty (not an error)
// when the .pub file is missing or malformed; callers treat empty as
// "unknown".
func (m *Manager) Fingerprint(path string) string {
	pubPath := path
	if !strings.HasSuffix(pubPath, ".pub") {
		pubPath += ".pub"
	}

	data, err := os.ReadFile(pubPath)
	if err != nil {
		return ""
	}
	fields := strings.Fields(strings.TrimSpace(string(data)))
	if len(fields) < 2 || !utils.ValidSSHPublicKey(string(data)) {
		return ""
	}

	sum := sha256.Sum256([]byte(fields[1]))
	return "SHA256:" + hex.EncodeToString(sum[:])[:16]
}

// PassphraseProtected reports whether the private key at path is encrypted.
// It sniffs legacy PEM encryption markers and falls back to parsing the
// OpenSSH format. Advisory only: any read error yields false.
func (m *Manager) PassphraseProtected(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	content := string(data)
	if strings.Contains(content, "BEGIN ENCRYPTED PRIVATE KEY") ||
		strings.Contains(content, "Proc-Type: 4,ENCRYPTED") {
		return true
	}

	if _, err := ssh.ParseRawPrivateKey(data); err != nil {
		var missing *ssh.PassphraseMissingError
		return errors.As(err, &missing)
	}
	return false
}

// KeyInUse reports whether the key at path matches a fingerprint already
// claimed by a profile, and if so which one. fingerprints maps profile name
// to its known key fingerprint.
func (m *Manager) KeyInUse(path string, fingerprints map[string]string) (bool, string) {
	candidate := m.Fingerprint(path)
	if candidate == "" {
		return false, ""
	}
	for name, fp := range fingerprints {
		if fp != "" && fp == candidate {
			return true, name
		}
	}
	return false, ""
}
