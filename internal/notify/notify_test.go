package notify

import (
	"errors"
	"strings"
	"testing"
)

func TestNotifySwitch(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		backend := &MockBackend{}
		n := New(true, WithBackend(backend))

		if err := n.NotifySwitch("work", "jane@company.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(backend.Notifications) != 1 {
			t.Fatalf("expected one notification, got %d", len(backend.Notifications))
		}
		got := backend.Notifications[0]
		if !strings.Contains(got, "Profile Active") || !strings.Contains(got, "work") || !strings.Contains(got, "jane@company.com") {
			t.Errorf("unexpected notification: %q", got)
		}
	})

	t.Run("disabled drops silently", func(t *testing.T) {
		backend := &MockBackend{}
		n := New(false, WithBackend(backend))

		if err := n.NotifySwitch("work", "jane@company.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(backend.Notifications) != 0 {
			t.Error("disabled notifier must not notify")
		}
	})
}

func TestNotifyFailure(t *testing.T) {
	backend := &MockBackend{}
	n := New(true, WithBackend(backend))

	if err := n.NotifyFailure("work", errors.New("ssh config not writable")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.Alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(backend.Alerts))
	}
	got := backend.Alerts[0]
	if !strings.Contains(got, "Switch Failed") || !strings.Contains(got, "ssh config not writable") {
		t.Errorf("unexpected alert: %q", got)
	}
}
