// Package textfilter normalizes and validates identifiers used in story files
// and in requests.
package textfilter

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// IsValidID reports whether id is lowercase snake_case.
func IsValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

// NormalizeID converts a string to lowercase snake_case for consistent IDs.
// Spaces and hyphens become underscores; other punctuation is dropped.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var out strings.Builder
	prevUnderscore := false
	for _, r := range cases.Fold().String(s) {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if !prevUnderscore && out.Len() > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}

		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out.WriteRune(r)
			prevUnderscore = false

		default:
			// Ignore other characters
		}
	}
	return strings.TrimSuffix(out.String(), "_")
}
