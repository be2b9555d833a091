package util

import (
	"regexp"
	"strings"
)

var (
	// multiSpacePattern matches multiple consecutive whitespace characters
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeAddress cleans a free-text address typed into the form before it
// is sent to the geocoder: collapses whitespace and strips stray separators
// users tend to leave at the edges.
func NormalizeAddress(s string) string {
	s = multiSpacePattern.ReplaceAllString(s, " ")
	s = strings.Trim(s, " ,;")
	return s
}

// NormalizeName trims and collapses whitespace in a person-name field.
func NormalizeName(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}

// NormalizePhone strips the separators people paste into phone numbers
// (spaces, dashes, dots, parentheses) so that validation sees digits only.
func NormalizePhone(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case ' ', '-', '.', '(', ')':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
