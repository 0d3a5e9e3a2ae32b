// Package profile orchestrates profile operations: it composes the registry
// with the git config adapter and the SSH manager so that every operation
// keeps the registry consistent with the external state actually achieved.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmarrero/ghswitch/internal/registry"
)

var (
	// ErrValidation indicates a malformed profile name or email.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the referenced profile is absent.
	ErrNotFound = errors.New("profile not found")
	// ErrExists indicates a profile name collision.
	ErrExists = errors.New("profile already exists")
	// ErrSwitch wraps a collaborator failure during a profile switch.
	ErrSwitch = errors.New("profile switch failed")
	// ErrDelete wraps an unexpected failure during profile deletion.
	ErrDelete = errors.New("profile delete failed")
)

// GitConfigurer is the slice of the git adapter a switch needs.
type GitConfigurer interface {
	Set(ctx context.Context, name, email string) error
}

// SSHActivator is the slice of the SSH manager that switch/delete need.
type SSHActivator interface {
	Activate(profile, keyPath string) error
	Deactivate(profile string) error
	RemoveKey(path string)
}

// Metadata carries the optional SSH key attributes recorded on creation.
// Zero values fall back to the registry defaults.
type Metadata struct {
	Fingerprint         string
	PassphraseProtected bool
	Source              string
	KeyType             string
}

// Update names the fields an update may change. Nil pointers leave the
// corresponding field untouched.
type Update struct {
	FullName            *string
	Email               *string
	SSHKeyPath          *string
	SSHKeyPublic        *string
	Fingerprint         *string
	PassphraseProtected *bool
	Source              *string
}

// Manager implements profile lifecycle operations over a registry store.
type Manager struct {
	store *registry.Store
}

// NewManager creates a Manager over the given registry store.
func NewManager(store *registry.Store) *Manager {
	return &Manager{store: store}
}

// NewDefaultManager creates a Manager over the per-user registry.
func NewDefaultManager() *Manager {
	return NewManager(registry.NewDefault())
}

// Create validates the identity fields and inserts a new profile record.
func (m *Manager) Create(name, fullName, email, sshKeyPath, sshKeyPublic string, meta Metadata) error {
	if !ValidProfileName(name) {
		return fmt.Errorf("%w: profile name must contain only letters, numbers, hyphens and underscores", ErrValidation)
	}
	if !ValidEmail(email) {
		return fmt.Errorf("%w: invalid email format %q", ErrValidation, email)
	}

	doc, err := m.store.Load()
	if err != nil {
		return err
	}
	if _, ok := doc.Get(name); ok {
		return fmt.Errorf("%w: profile %q already exists", ErrExists, name)
	}

	source := meta.Source
	if source == "" {
		source = registry.DefaultKeySource
	}
	keyType := meta.KeyType
	if keyType == "" {
		keyType = registry.DefaultKeyType
	}

	doc.Put(name, registry.Profile{
		FullName:                  fullName,
		Email:                     email,
		SSHKeyPath:                sshKeyPath,
		SSHKeyPublic:              sshKeyPublic,
		SSHKeyFingerprint:         meta.Fingerprint,
		SSHKeyPassphraseProtected: meta.PassphraseProtected,
		SSHKeySource:              source,
		SSHKeyType:                keyType,
		CreatedAt:                 time.Now().Format(time.RFC3339),
	})

	return m.store.Save(doc)
}

// Switch activates a profile: global git identity first, then the SSH
// stanza, then the registry's active pointer. The pointer is only written
// after both external mutations succeed, so a failed switch never leaves
// the registry claiming state the machine doesn't reflect. A git identity
// already changed before a later SSH failure is deliberately not rolled
// back; the partial success is reported through the wrapped error.
func (m *Manager) Switch(ctx context.Context, name string, git GitConfigurer, ssh SSHActivator) error {
	doc, err := m.store.Load()
	if err != nil {
		return err
	}
	rec, ok := doc.Get(name)
	if !ok {
		return fmt.Errorf("%w: profile %q", ErrNotFound, name)
	}

	if err := git.Set(ctx, rec.FullName, rec.Email); err != nil {
		return fmt.Errorf("%w: setting git identity: %w", ErrSwitch, err)
	}
	if err := ssh.Activate(name, rec.SSHKeyPath); err != nil {
		return fmt.Errorf("%w: activating ssh config: %w", ErrSwitch, err)
	}

	rec.LastUsed = time.Now().Format(time.RFC3339)
	doc.Put(name, rec)
	if err := doc.SetActive(name); err != nil {
		return fmt.Errorf("%w: %w", ErrSwitch, err)
	}

	return m.store.Save(doc)
}

// Update merges the provided fields into an existing profile.
func (m *Manager) Update(name string, upd Update) error {
	doc, err := m.store.Load()
	if err != nil {
		return err
	}
	rec, ok := doc.Get(name)
	if !ok {
		return fmt.Errorf("%w: profile %q", ErrNotFound, name)
	}

	if upd.Email != nil {
		if !ValidEmail(*upd.Email) {
			return fmt.Errorf("%w: invalid email format %q", ErrValidation, *upd.Email)
		}
		rec.Email = *upd.Email
	}
	if upd.FullName != nil {
		rec.FullName = *upd.FullName
	}
	if upd.SSHKeyPath != nil {
		rec.SSHKeyPath = *upd.SSHKeyPath
	}
	if upd.SSHKeyPublic != nil {
		rec.SSHKeyPublic = *upd.SSHKeyPublic
	}
	if upd.Fingerprint != nil {
		rec.SSHKeyFingerprint = *upd.Fingerprint
	}
	if upd.PassphraseProtected != nil {
		rec.SSHKeyPassphraseProtected = *upd.PassphraseProtected
	}
	if upd.Source != nil {
		rec.SSHKeySource = *upd.Source
	}

	doc.Put(name, rec)
	return m.store.Save(doc)
}

// Delete removes a profile's SSH key files and config stanza, then the
// registry record. Key removal is best-effort; only a failure to rewrite
// the SSH config counts as unexpected and aborts the deletion.
func (m *Manager) Delete(name string, ssh SSHActivator) error {
	doc, err := m.store.Load()
	if err != nil {
		return err
	}
	rec, ok := doc.Get(name)
	if !ok {
		return fmt.Errorf("%w: profile %q", ErrNotFound, name)
	}

	if rec.SSHKeyPath != "" {
		ssh.RemoveKey(rec.SSHKeyPath)
	}
	if err := ssh.Deactivate(name); err != nil {
		return fmt.Errorf("%w: removing ssh config entry: %w", ErrDelete, err)
	}

	doc.Remove(name)
	return m.store.Save(doc)
}

// Get returns a profile record by name.
func (m *Manager) Get(name string) (registry.Profile, error) {
	doc, err := m.store.Load()
	if err != nil {
		return registry.Profile{}, err
	}
	rec, ok := doc.Get(name)
	if !ok {
		return registry.Profile{}, fmt.Errorf("%w: profile %q", ErrNotFound, name)
	}
	return rec, nil
}

// Exists reports whether a profile is present in the registry.
func (m *Manager) Exists(name string) bool {
	doc, err := m.store.Load()
	if err != nil {
		return false
	}
	_, ok := doc.Get(name)
	return ok
}

// List returns every profile record keyed by name.
func (m *Manager) List() (map[string]registry.Profile, error) {
	doc, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	return doc.Profiles, nil
}

// Current returns the active profile name, if one is set.
func (m *Manager) Current() (string, bool) {
	doc, err := m.store.Load()
	if err != nil {
		return "", false
	}
	return doc.ActiveProfile()
}

// Export serializes the full registry document in the given format.
func (m *Manager) Export(format registry.Format) ([]byte, error) {
	doc, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	return doc.Export(format)
}

// Import merges an exported document into the registry. With overwrite
// false, existing records win on name collisions.
func (m *Manager) Import(data []byte, format registry.Format, overwrite bool) ([]string, error) {
	in, err := registry.Decode(data, format)
	if err != nil {
		return nil, err
	}

	doc, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	imported := doc.Merge(in, overwrite)
	if err := m.store.Save(doc); err != nil {
		return nil, err
	}
	return imported, nil
}

// Fingerprints maps every profile name to its recorded key fingerprint,
// computing missing ones with fp. Used for duplicate-key detection before
// import or creation.
func (m *Manager) Fingerprints(fp func(path string) string) map[string]string {
	doc, err := m.store.Load()
	if err != nil {
		return nil
	}

	out := make(map[string]string, len(doc.Profiles))
	for name, rec := range doc.Profiles {
		if rec.SSHKeyFingerprint != "" {
			out[name] = rec.SSHKeyFingerprint
		} else if rec.SSHKeyPath != "" && fp != nil {
			out[name] = fp(rec.SSHKeyPath)
		}
	}
	return out
}
