package gitcfg

import (
	"context"
	"errors"
	"testing"

	"github.com/dmarrero/ghswitch/internal/execx"
)

func TestManager_Current(t *testing.T) {
	t.Run("both values set", func(t *testing.T) {
		mock := execx.NewMockRunner()
		mock.Responses["git config --global user.name"] = execx.Result{Stdout: "Jane Doe\n"}
		mock.Responses["git config --global user.email"] = execx.Result{Stdout: "jane@company.com\n"}

		name, email := New(mock).Current(context.Background())
		if name != "Jane Doe" {
			t.Errorf("expected name 'Jane Doe', got %q", name)
		}
		if email != "jane@company.com" {
			t.Errorf("expected email 'jane@company.com', got %q", email)
		}
	})

	t.Run("unset values read empty", func(t *testing.T) {
		mock := execx.NewMockRunner()
		// git exits 1 when the key is unset.
		mock.Responses["git config --global user.name"] = execx.Result{ExitCode: 1}
		mock.Responses["git config --global user.email"] = execx.Result{ExitCode: 1}

		name, email := New(mock).Current(context.Background())
		if name != "" || email != "" {
			t.Errorf("expected empty identity, got %q <%s>", name, email)
		}
	})

	t.Run("missing git reads empty", func(t *testing.T) {
		mock := execx.NewMockRunner()
		mock.Errors["git"] = errors.New("executable file not found")

		name, email := New(mock).Current(context.Background())
		if name != "" || email != "" {
			t.Errorf("expected empty identity, got %q <%s>", name, email)
		}
	})
}

func TestManager_Set(t *testing.T) {
	t.Run("writes both values", func(t *testing.T) {
		mock := execx.NewMockRunner()
		m := New(mock)

		if err := m.Set(context.Background(), "Jane Doe", "jane@company.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := mock.CommandLines()
		if len(lines) != 2 {
			t.Fatalf("expected 2 git invocations, got %d: %v", len(lines), lines)
		}
		if lines[0] != "git config --global user.name Jane Doe" {
			t.Errorf("unexpected first command: %q", lines[0])
		}
		if lines[1] != "git config --global user.email jane@company.com" {
			t.Errorf("unexpected second command: %q", lines[1])
		}
	})

	t.Run("non-zero exit wraps ErrGitConfig", func(t *testing.T) {
		mock := execx.NewMockRunner()
		mock.Responses["git config --global user.name"] = execx.Result{ExitCode: 128, Stderr: "fatal: bad config"}

		err := New(mock).Set(context.Background(), "Jane", "jane@company.com")
		if !errors.Is(err, ErrGitConfig) {
			t.Errorf("expected ErrGitConfig, got %v", err)
		}
	})

	t.Run("runner error wraps ErrGitConfig", func(t *testing.T) {
		mock := execx.NewMockRunner()
		mock.Errors["git"] = errors.New("executable file not found")

		err := New(mock).Set(context.Background(), "Jane", "jane@company.com")
		if !errors.Is(err, ErrGitConfig) {
			t.Errorf("expected ErrGitConfig, got %v", err)
		}
	})
}

func TestManager_Restore(t *testing.T) {
	t.Run("empty values unset keys", func(t *testing.T) {
		mock := execx.NewMockRunner()
		// Unsetting an absent key exits 5; Restore must ignore it.
		mock.Responses["git config --global --unset"] = execx.Result{ExitCode: 5}

		if err := New(mock).Restore(context.Background(), "", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := mock.CommandLines()
		if len(lines) != 2 {
			t.Fatalf("expected 2 invocations, got %v", lines)
		}
		if lines[0] != "git config --global --unset user.name" {
			t.Errorf("unexpected command: %q", lines[0])
		}
	})

	t.Run("non-empty values are set", func(t *testing.T) {
		mock := execx.NewMockRunner()
		if err := New(mock).Restore(context.Background(), "Old Name", "old@example.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := mock.CommandLines()
		if lines[0] != "git config --global user.name Old Name" {
			t.Errorf("unexpected command: %q", lines[0])
		}
	})
}

func TestManager_Validate(t *testing.T) {
	mock := execx.NewMockRunner()
	mock.Responses["git config --global user.name"] = execx.Result{Stdout: "Jane Doe\n"}
	mock.Responses["git config --global user.email"] = execx.Result{Stdout: "jane@company.com\n"}
	m := New(mock)

	if !m.Validate(context.Background(), "Jane Doe", "jane@company.com") {
		t.Error("expected identity to validate")
	}
	if m.Validate(context.Background(), "Jane Doe", "other@example.com") {
		t.Error("expected mismatched email to fail validation")
	}
}

func TestManager_Available(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		mock := execx.NewMockRunner()
		mock.Responses["git --version"] = execx.Result{Stdout: "git version 2.43.0\n"}
		m := New(mock)

		if !m.Available(context.Background()) {
			t.Error("expected git available")
		}
		if v := m.Version(context.Background()); v != "git version 2.43.0" {
			t.Errorf("unexpected version: %q", v)
		}
	})

	t.Run("missing", func(t *testing.T) {
		mock := execx.NewMockRunner()
		mock.Errors["git"] = errors.New("executable file not found")
		m := New(mock)

		if m.Available(context.Background()) {
			t.Error("expected git unavailable")
		}
		if v := m.Version(context.Background()); v != "" {
			t.Errorf("expected empty version, got %q", v)
		}
	})
}
