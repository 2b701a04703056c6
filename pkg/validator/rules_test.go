package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyphalab/authkit/pkg/validator"
)

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@example.co.uk",
		"user+tag@example.com",
	}
	for _, email := range valid {
		t.Run("accepts "+email, func(t *testing.T) {
			t.Parallel()
			assert.NoError(t, validator.Apply(validator.ValidEmail("email", email)))
		})
	}

	invalid := []string{
		"",
		"not-an-email",
		"user@",
		"@example.com",
		"user@localhost",
		"user@.example.com",
		"Bob <bob@example.com>",
	}
	for _, email := range invalid {
		email := email
		t.Run("rejects "+email, func(t *testing.T) {
			t.Parallel()
			err := validator.Apply(validator.ValidEmail("email", email))
			require.Error(t, err)
			assert.True(t, validator.IsValidationError(err))
		})
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	cfg := validator.DefaultPasswordStrength()

	t.Run("accepts mixed-class password", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.StrongPassword("password", "correct horse 9", cfg)))
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, validator.Apply(validator.StrongPassword("password", "ab1", cfg)))
	})

	t.Run("rejects single character class", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, validator.Apply(validator.StrongPassword("password", "aaaaaaaaaa", cfg)))
	})
}

func TestNotCommonPassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, validator.Apply(validator.NotCommonPassword("password", "Password123")))
	assert.NoError(t, validator.Apply(validator.NotCommonPassword("password", "unguessable-v9")))
}

func TestApplyCollectsAllFailures(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.Required("email", ""),
		validator.Required("password", ""),
	)
	require.Error(t, err)

	ve := validator.ExtractValidationErrors(err)
	require.Len(t, ve, 2)
	assert.Equal(t, []string{"email", "password"}, ve.Fields())
	assert.Equal(t, []string{"is required"}, ve.Get("email"))
}
