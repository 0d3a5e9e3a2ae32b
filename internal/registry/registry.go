// Package registry owns the on-disk profile registry: the mapping from
// profile name to identity record plus the single active-profile pointer.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dmarrero/ghswitch/internal/config"
)

// SchemaVersion is the registry document schema version.
const SchemaVersion = "1.0"

// Key metadata defaults applied to records missing the fields, both at
// creation time and when importing documents written by older versions.
const (
	DefaultKeySource = "generated"
	DefaultKeyType   = "ed25519"
)

// ErrPersistence indicates the registry file could not be read, parsed or
// written. The last-known-good file is never modified when this is returned.
var ErrPersistence = errors.New("profile registry persistence failure")

// Meta holds registry document metadata.
type Meta struct {
	Version       string `toml:"version" yaml:"version" json:"version"`
	ActiveProfile string `toml:"active_profile,omitempty" yaml:"active_profile,omitempty" json:"active_profile,omitempty"`
}

// Profile is one named identity record. The registry key is the profile
// name; FullName is the display name written to git config.
type Profile struct {
	FullName                  string `toml:"name" yaml:"name" json:"name"`
	Email                     string `toml:"email" yaml:"email" json:"email"`
	SSHKeyPath                string `toml:"ssh_key_path" yaml:"ssh_key_path" json:"ssh_key_path"`
	SSHKeyPublic              string `toml:"ssh_key_public" yaml:"ssh_key_public" json:"ssh_key_public"`
	SSHKeyFingerprint         string `toml:"ssh_key_fingerprint,omitempty" yaml:"ssh_key_fingerprint,omitempty" json:"ssh_key_fingerprint,omitempty"`
	SSHKeyPassphraseProtected bool   `toml:"ssh_key_passphrase_protected" yaml:"ssh_key_passphrase_protected" json:"ssh_key_passphrase_protected"`
	SSHKeySource              string `toml:"ssh_key_source" yaml:"ssh_key_source" json:"ssh_key_source"`
	SSHKeyType                string `toml:"ssh_key_type" yaml:"ssh_key_type" json:"ssh_key_type"`
	CreatedAt                 string `toml:"created_at" yaml:"created_at" json:"created_at"`
	LastUsed                  string `toml:"last_used,omitempty" yaml:"last_used,omitempty" json:"last_used,omitempty"`
}

// Document is the full persisted registry state.
type Document struct {
	Meta     Meta               `toml:"meta" yaml:"meta" json:"meta"`
	Profiles map[string]Profile `toml:"profiles" yaml:"profiles" json:"profiles"`
}

// NewDocument returns an empty bootstrap document.
func NewDocument() *Document {
	return &Document{
		Meta:     Meta{Version: SchemaVersion},
		Profiles: make(map[string]Profile),
	}
}

// Get returns the profile for name.
func (d *Document) Get(name string) (Profile, bool) {
	p, ok := d.Profiles[name]
	return p, ok
}

// Put inserts or replaces the profile for name.
func (d *Document) Put(name string, p Profile) {
	if d.Profiles == nil {
		d.Profiles = make(map[string]Profile)
	}
	d.Profiles[name] = p
}

// Remove deletes the profile for name. If it was the active profile, the
// active pointer is cleared as well.
func (d *Document) Remove(name string) {
	delete(d.Profiles, name)
	if d.Meta.ActiveProfile == name {
		d.Meta.ActiveProfile = ""
	}
}

// SetActive sets the active-profile pointer. An empty name clears it.
func (d *Document) SetActive(name string) error {
	if name != "" {
		if _, ok := d.Profiles[name]; !ok {
			return fmt.Errorf("profile %q not found", name)
		}
	}
	d.Meta.ActiveProfile = name
	return nil
}

// ActiveProfile returns the active profile name, if one is set.
func (d *Document) ActiveProfile() (string, bool) {
	if d.Meta.ActiveProfile == "" {
		return "", false
	}
	return d.Meta.ActiveProfile, true
}

// normalize fills schema metadata, record defaults and drops a dangling
// active-profile pointer.
func (d *Document) normalize() {
	if d.Meta.Version == "" {
		d.Meta.Version = SchemaVersion
	}
	if d.Profiles == nil {
		d.Profiles = make(map[string]Profile)
	}
	for name, p := range d.Profiles {
		if p.SSHKeySource == "" {
			p.SSHKeySource = DefaultKeySource
		}
		if p.SSHKeyType == "" {
			p.SSHKeyType = DefaultKeyType
		}
		d.Profiles[name] = p
	}
	if d.Meta.ActiveProfile != "" {
		if _, ok := d.Profiles[d.Meta.ActiveProfile]; !ok {
			d.Meta.ActiveProfile = ""
		}
	}
}

// Store reads and writes the registry document at a fixed path.
type Store struct {
	path string
}

// New creates a Store for the given registry file path.
func New(path string) *Store {
	return &Store{path: path}
}

// NewDefault creates a Store at the per-user registry path.
func NewDefault() *Store {
	return New(config.GetPaths().ProfilesFile)
}

// Path returns the registry file path.
func (s *Store) Path() string {
	return s.path
}

// BackupPath returns the backup sibling of the registry file.
func (s *Store) BackupPath() string {
	return s.path + ".backup"
}

// Load reads the registry document. A missing file is not an error and
// yields an empty bootstrap document; an unreadable or unparseable file is.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrPersistence, s.path, err)
	}

	doc := NewDocument()
	if err := toml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrPersistence, s.path, err)
	}

	doc.normalize()
	return doc, nil
}

// Save writes the full document via a temp file and rename, so readers
// never observe a half-written registry. An existing file is first copied
// to the backup path, so a failed write never destroys the last good state.
func (s *Store) Save(doc *Document) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encoding registry: %v", ErrPersistence, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("%w: creating config directory: %v", ErrPersistence, err)
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.BackupPath(), prev, 0600); err != nil {
			return fmt.Errorf("%w: writing backup %s: %v", ErrPersistence, s.BackupPath(), err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrPersistence, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %v", ErrPersistence, s.path, err)
	}

	return nil
}
