package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address so the same mailbox
// always maps to the same identity key. Invalid shapes are returned as-is and
// left for validation to reject.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	domain := parts[1]

	// Consolidate consecutive dots to prevent delivery failures
	local = dotRegex.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// MaskEmail hides the local part while keeping the domain recognizable.
// Safe to use in logs where the full address must not appear.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	domain := parts[1]

	switch len(local) {
	case 0:
		return email
	case 1:
		return "*@" + domain
	default:
		return string(local[0]) + strings.Repeat("*", len(local)-1) + "@" + domain
	}
}
