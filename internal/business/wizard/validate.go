package wizard

import "regexp"

var (
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	// E.164-like: optional +, non-zero first digit, 2-15 digits total.
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

// IsValidEmail reports whether s looks like an email address. Syntax only,
// no MX lookup.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s is an E.164-like phone number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
