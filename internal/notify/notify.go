// Package notify provides desktop notification support for profile
// switches.
package notify

import (
	"fmt"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifySwitch sends a notification about a successful profile switch.
	NotifySwitch(profile, email string) error
	// NotifyFailure sends a notification about a failed profile switch.
	NotifyFailure(profile string, err error) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification
// service.
type notifier struct {
	enabled bool
	backend Backend
}

// New creates a new Notifier. A disabled notifier silently drops every
// notification.
func New(enabled bool, opts ...Option) Notifier {
	n := &notifier{
		enabled: enabled,
		backend: newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// NotifySwitch implements Notifier.
func (n *notifier) NotifySwitch(profile, email string) error {
	if !n.enabled {
		return nil
	}

	title := "GitHub Switcher: Profile Active"
	message := fmt.Sprintf("Switched to '%s' (%s).", profile, email)
	return n.backend.Notify(title, message, "")
}

// NotifyFailure implements Notifier.
func (n *notifier) NotifyFailure(profile string, err error) error {
	if !n.enabled {
		return nil
	}

	title := "GitHub Switcher: Switch Failed"
	message := fmt.Sprintf("Could not switch to '%s'.\nError: %v", profile, err)
	return n.backend.Alert(title, message, "")
}
