package profile

import "regexp"

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ValidProfileName reports whether name is a valid profile identifier:
// letters, digits, hyphens and underscores only.
func ValidProfileName(name string) bool {
	return nameRe.MatchString(name)
}

// ValidEmail reports whether email matches a standard address grammar.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
