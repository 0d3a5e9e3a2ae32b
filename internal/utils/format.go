package utils

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"
)

// FormatTimeAgo formats a timestamp as a coarse human-readable distance,
// e.g. "3 days ago". Zero times render as "Never".
func FormatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		m := int(d.Minutes())
		return fmt.Sprintf("%d %s ago", m, plural(m, "minute"))
	case d < 24*time.Hour:
		h := int(d.Hours())
		return fmt.Sprintf("%d %s ago", h, plural(h, "hour"))
	case d < 30*24*time.Hour:
		days := int(d.Hours() / 24)
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	default:
		return t.Format("2006-01-02")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// PlatformInfo returns a short OS/architecture description.
func PlatformInfo() string {
	return fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
}

// IsCommandAvailable reports whether a binary can be found in PATH.
func IsCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
