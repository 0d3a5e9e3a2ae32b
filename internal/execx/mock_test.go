package execx

import (
	"context"
	"errors"
	"testing"
)

func TestMockRunner_Run(t *testing.T) {
	t.Run("longest prefix wins", func(t *testing.T) {
		mock := NewMockRunner()
		mock.Responses["git config"] = Result{Stdout: "generic"}
		mock.Responses["git config --global user.name"] = Result{Stdout: "specific"}

		res, err := mock.Run(context.Background(), Options{
			Name: "git",
			Args: []string{"config", "--global", "user.name"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if res.Stdout != "specific" {
			t.Errorf("expected specific response, got %q", res.Stdout)
		}
	})

	t.Run("errors take precedence", func(t *testing.T) {
		mock := NewMockRunner()
		boom := errors.New("boom")
		mock.Errors["git"] = boom
		mock.Responses["git --version"] = Result{Stdout: "git version 2.43.0"}

		_, err := mock.Run(context.Background(), Options{Name: "git", Args: []string{"--version"}})
		if !errors.Is(err, boom) {
			t.Errorf("expected configured error, got %v", err)
		}
	})

	t.Run("unmatched commands succeed empty", func(t *testing.T) {
		mock := NewMockRunner()
		res, err := mock.Run(context.Background(), Options{Name: "whatever"})
		if err != nil || res.ExitCode != 0 || res.Stdout != "" {
			t.Errorf("unexpected: %+v, %v", res, err)
		}
	})

	t.Run("records calls", func(t *testing.T) {
		mock := NewMockRunner()
		mock.Run(context.Background(), Options{Name: "ssh-add", Args: []string{"/key"}, Stdin: "\n"})

		if len(mock.Calls) != 1 {
			t.Fatalf("expected one call, got %d", len(mock.Calls))
		}
		if mock.Calls[0].Stdin != "\n" {
			t.Errorf("stdin not recorded: %q", mock.Calls[0].Stdin)
		}
		lines := mock.CommandLines()
		if lines[0] != "ssh-add /key" {
			t.Errorf("unexpected command line: %q", lines[0])
		}
	})
}

func TestMockRunner_LookPath(t *testing.T) {
	mock := NewMockRunner()
	mock.MissingBinaries = []string{"git"}

	if _, err := mock.LookPath("git"); err == nil {
		t.Error("expected error for missing binary")
	}
	path, err := mock.LookPath("ssh")
	if err != nil || path == "" {
		t.Errorf("expected path for present binary, got %q, %v", path, err)
	}
}

func TestRealRunner(t *testing.T) {
	r := NewRunner()

	t.Run("missing binary is an error", func(t *testing.T) {
		_, err := r.Run(context.Background(), Options{Name: "definitely-not-a-binary-xyz"})
		if err == nil {
			t.Error("expected error for missing binary")
		}
	})

	t.Run("captures stdout", func(t *testing.T) {
		res, err := r.Run(context.Background(), Options{Name: "sh", Args: []string{"-c", "echo hello"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Stdout != "hello\n" || res.ExitCode != 0 {
			t.Errorf("unexpected result: %+v", res)
		}
	})

	t.Run("non-zero exit is not an error", func(t *testing.T) {
		res, err := r.Run(context.Background(), Options{Name: "sh", Args: []string{"-c", "exit 3"}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ExitCode != 3 {
			t.Errorf("expected exit 3, got %d", res.ExitCode)
		}
	})

	t.Run("stdin is fed to the process", func(t *testing.T) {
		res, err := r.Run(context.Background(), Options{Name: "cat", Stdin: "ping"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Stdout != "ping" {
			t.Errorf("unexpected stdout: %q", res.Stdout)
		}
	})
}
