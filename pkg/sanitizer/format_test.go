package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hyphalab/authkit/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "User@Example.COM", "user@example.com"},
		{"trims whitespace", "  user@example.com  ", "user@example.com"},
		{"consolidates dots", "first..last@example.com", "first.last@example.com"},
		{"strips edge dots", ".user.@example.com", "user@example.com"},
		{"keeps plus tags", "User+Tag@Example.com", "user+tag@example.com"},
		{"invalid shape untouched", "not-an-email", "not-an-email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, sanitizer.NormalizeEmail(tc.input))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "u***@example.com", sanitizer.MaskEmail("user@example.com"))
	assert.Equal(t, "*@example.com", sanitizer.MaskEmail("u@example.com"))
	assert.Equal(t, "broken", sanitizer.MaskEmail("broken"))
}
