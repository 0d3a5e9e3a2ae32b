package notify

import "github.com/gen2brain/beeep"

// Backend defines the interface for the notification backend.
type Backend interface {
	// Notify sends a standard notification.
	Notify(title, message, iconPath string) error
	// Alert sends an alert notification.
	Alert(title, message, iconPath string) error
}

// desktopBackend implements Backend by calling beeep functions directly.
type desktopBackend struct{}

// Notify implements Backend.
func (desktopBackend) Notify(title, message, iconPath string) error {
	return beeep.Notify(title, message, iconPath)
}

// Alert implements Backend.
func (desktopBackend) Alert(title, message, iconPath string) error {
	return beeep.Alert(title, message, iconPath)
}

// newDesktopBackend returns a Backend that uses beeep.
func newDesktopBackend() Backend {
	return desktopBackend{}
}

// MockBackend records notifications for tests.
type MockBackend struct {
	Notifications []string
	Alerts        []string
}

// Notify implements Backend.
func (m *MockBackend) Notify(title, message, _ string) error {
	m.Notifications = append(m.Notifications, title+": "+message)
	return nil
}

// Alert implements Backend.
func (m *MockBackend) Alert(title, message, _ string) error {
	m.Alerts = append(m.Alerts, title+": "+message)
	return nil
}
