package profile

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmarrero/ghswitch/internal/registry"
)

type fakeGit struct {
	name  string
	email string
	err   error
	calls int
}

func (g *fakeGit) Set(_ context.Context, name, email string) error {
	g.calls++
	if g.err != nil {
		return g.err
	}
	g.name, g.email = name, email
	return nil
}

type fakeSSH struct {
	activated   map[string]string
	removed     []string
	activateErr error
	deactivated []string
}

func newFakeSSH() *fakeSSH {
	return &fakeSSH{activated: make(map[string]string)}
}

func (s *fakeSSH) Activate(profile, keyPath string) error {
	if s.activateErr != nil {
		return s.activateErr
	}
	s.activated[profile] = keyPath
	return nil
}

func (s *fakeSSH) Deactivate(profile string) error {
	s.deactivated = append(s.deactivated, profile)
	delete(s.activated, profile)
	return nil
}

func (s *fakeSSH) RemoveKey(path string) {
	s.removed = append(s.removed, path)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(registry.New(filepath.Join(t.TempDir(), "profiles.toml")))
}

func mustCreate(t *testing.T, m *Manager, name, email string) {
	t.Helper()
	err := m.Create(name, "Full "+name, email, "/keys/"+name, "ssh-ed25519 AAAA "+email, Metadata{})
	if err != nil {
		t.Fatalf("creating %s: %v", name, err)
	}
}

func TestManager_Create(t *testing.T) {
	t.Run("success with defaults", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")

		rec, err := m.Get("work")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.SSHKeySource != registry.DefaultKeySource || rec.SSHKeyType != registry.DefaultKeyType {
			t.Errorf("expected key defaults, got %+v", rec)
		}
		if rec.CreatedAt == "" {
			t.Error("expected creation timestamp")
		}
		if rec.LastUsed != "" {
			t.Error("new profile should never have been used")
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		m := newTestManager(t)
		err := m.Create("bad name!", "Jane", "jane@company.com", "", "", Metadata{})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		m := newTestManager(t)
		err := m.Create("work", "Jane", "not-an-email", "", "", Metadata{})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")

		err := m.Create("work", "Jane", "jane@company.com", "", "", Metadata{})
		if !errors.Is(err, ErrExists) {
			t.Fatalf("expected ErrExists, got %v", err)
		}
		if !strings.Contains(err.Error(), "already exists") {
			t.Errorf("error should mention 'already exists': %q", err)
		}
	})
}

func TestManager_Switch(t *testing.T) {
	t.Run("success updates git, ssh and registry", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")
		git := &fakeGit{}
		ssh := newFakeSSH()

		if err := m.Switch(context.Background(), "work", git, ssh); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if git.name != "Full work" || git.email != "jane@company.com" {
			t.Errorf("git identity not set: %q <%s>", git.name, git.email)
		}
		if ssh.activated["work"] != "/keys/work" {
			t.Errorf("ssh stanza not activated: %v", ssh.activated)
		}
		active, ok := m.Current()
		if !ok || active != "work" {
			t.Errorf("expected active work, got %q", active)
		}
		rec, _ := m.Get("work")
		if rec.LastUsed == "" {
			t.Error("expected last_used stamp")
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		m := newTestManager(t)
		err := m.Switch(context.Background(), "ghost", &fakeGit{}, newFakeSSH())
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("git failure leaves registry untouched", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")
		git := &fakeGit{err: errors.New("git broke")}
		ssh := newFakeSSH()

		err := m.Switch(context.Background(), "work", git, ssh)
		if !errors.Is(err, ErrSwitch) {
			t.Fatalf("expected ErrSwitch, got %v", err)
		}
		if len(ssh.activated) != 0 {
			t.Error("ssh must not be touched after git failure")
		}
		if _, ok := m.Current(); ok {
			t.Error("active pointer must not be written on failure")
		}
	})

	t.Run("ssh failure after git success", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")
		git := &fakeGit{}
		ssh := newFakeSSH()
		ssh.activateErr = errors.New("config not writable")

		err := m.Switch(context.Background(), "work", git, ssh)
		if !errors.Is(err, ErrSwitch) {
			t.Fatalf("expected ErrSwitch, got %v", err)
		}
		// The git identity was already changed; only the registry stays put.
		if git.calls != 1 {
			t.Errorf("expected one git call, got %d", git.calls)
		}
		if _, ok := m.Current(); ok {
			t.Error("active pointer must not be written on failure")
		}
		rec, _ := m.Get("work")
		if rec.LastUsed != "" {
			t.Error("last_used must not be stamped on failure")
		}
	})
}

func TestManager_Update(t *testing.T) {
	m := newTestManager(t)
	mustCreate(t, m, "work", "jane@company.com")

	newEmail := "jane@newco.com"
	if err := m.Update("work", Update{Email: &newEmail}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, _ := m.Get("work")
	if rec.Email != newEmail {
		t.Errorf("email not updated: %q", rec.Email)
	}
	if rec.FullName != "Full work" {
		t.Errorf("untouched field changed: %q", rec.FullName)
	}

	bad := "nope"
	if err := m.Update("work", Update{Email: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	if err := m.Update("ghost", Update{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	t.Run("removes key, stanza and record", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")
		ssh := newFakeSSH()

		if err := m.Delete("work", ssh); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ssh.removed) != 1 || ssh.removed[0] != "/keys/work" {
			t.Errorf("key not removed: %v", ssh.removed)
		}
		if len(ssh.deactivated) != 1 || ssh.deactivated[0] != "work" {
			t.Errorf("stanza not deactivated: %v", ssh.deactivated)
		}
		if m.Exists("work") {
			t.Error("record still present")
		}
	})

	t.Run("deleting the active profile clears the pointer", func(t *testing.T) {
		m := newTestManager(t)
		mustCreate(t, m, "work", "jane@company.com")
		ssh := newFakeSSH()
		if err := m.Switch(context.Background(), "work", &fakeGit{}, ssh); err != nil {
			t.Fatal(err)
		}

		if err := m.Delete("work", ssh); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := m.Current(); ok {
			t.Error("active pointer should be cleared")
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		m := newTestManager(t)
		if err := m.Delete("ghost", newFakeSSH()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestManager_ExportImport(t *testing.T) {
	src := newTestManager(t)
	mustCreate(t, src, "work", "jane@company.com")
	mustCreate(t, src, "personal", "jane@home.net")

	data, err := src.Export(registry.FormatYAML)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := newTestManager(t)
	mustCreate(t, dst, "work", "existing@company.com")

	imported, err := dst.Import(data, registry.FormatYAML, false)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(imported) != 1 || imported[0] != "personal" {
		t.Errorf("expected only personal imported, got %v", imported)
	}
	rec, _ := dst.Get("work")
	if rec.Email != "existing@company.com" {
		t.Error("existing record should survive without overwrite")
	}

	imported, err = dst.Import(data, registry.FormatYAML, true)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(imported) != 2 {
		t.Errorf("expected both profiles imported, got %v", imported)
	}
	rec, _ = dst.Get("work")
	if rec.Email != "jane@company.com" {
		t.Error("overwrite should replace existing record")
	}
}

func TestManager_Fingerprints(t *testing.T) {
	m := newTestManager(t)
	err := m.Create("work", "Jane", "jane@company.com", "/keys/work", "pub", Metadata{Fingerprint: "SHA256:recorded"})
	if err != nil {
		t.Fatal(err)
	}
	mustCreate(t, m, "personal", "jane@home.net")

	fps := m.Fingerprints(func(path string) string {
		return "SHA256:computed-" + path
	})
	if fps["work"] != "SHA256:recorded" {
		t.Errorf("recorded fingerprint not used: %q", fps["work"])
	}
	if fps["personal"] != "SHA256:computed-/keys/personal" {
		t.Errorf("missing fingerprint not computed: %q", fps["personal"])
	}
}
