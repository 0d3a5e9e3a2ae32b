package keyring

import (
	"errors"
	"testing"
)

func TestDefaultStore(t *testing.T) {
	t.Run("file store with test env", func(t *testing.T) {
		t.Setenv(TestKeyringEnvVar, t.TempDir())
		if _, ok := DefaultStore().(*FileStore); !ok {
			t.Error("expected file store when test dir is set")
		}
	})

	t.Run("os keyring by default", func(t *testing.T) {
		t.Setenv(TestKeyringEnvVar, "")
		if _, ok := DefaultStore().(*osKeyring); !ok {
			t.Error("expected OS keyring store")
		}
	})
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		if err := store.Set("work", "hunter2"); err != nil {
			t.Fatalf("set failed: %v", err)
		}
		got, err := store.Get("work")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != "hunter2" {
			t.Errorf("expected 'hunter2', got %q", got)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := store.Get("nonexistent")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Set("gone", "secret"); err != nil {
			t.Fatal(err)
		}
		if err := store.Delete("gone"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Get("gone"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		// Deleting again is a no-op.
		if err := store.Delete("gone"); err != nil {
			t.Errorf("repeat delete failed: %v", err)
		}
	})

	t.Run("empty directory rejected", func(t *testing.T) {
		if _, err := NewFileStore(""); err == nil {
			t.Error("expected error for empty directory")
		}
	})
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	if err := store.Set("work", "secret"); err != nil {
		t.Fatal(err)
	}
	if got, err := store.Get("work"); err != nil || got != "secret" {
		t.Errorf("unexpected: %q, %v", got, err)
	}
	if store.Count() != 1 {
		t.Errorf("expected 1 entry, got %d", store.Count())
	}

	if err := store.Delete("work"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get("work"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	store.SetFailing(true)
	if err := store.Set("work", "secret"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable when failing, got %v", err)
	}
}
