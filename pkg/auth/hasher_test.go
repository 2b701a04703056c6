package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	t.Parallel()

	t.Run("hash verifies and mismatch fails", func(t *testing.T) {
		t.Parallel()

		h := NewHasher(bcrypt.MinCost)
		hash, err := h.Hash("SuperSecret1")
		require.NoError(t, err)

		assert.True(t, h.Verify("SuperSecret1", hash))
		assert.False(t, h.Verify("WrongSecret1", hash))
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		t.Parallel()

		h := NewHasher(bcrypt.MinCost)
		first, err := h.Hash("SuperSecret1")
		require.NoError(t, err)
		second, err := h.Hash("SuperSecret1")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.True(t, h.Verify("SuperSecret1", first))
		assert.True(t, h.Verify("SuperSecret1", second))
	})

	t.Run("hashes verify across cost levels", func(t *testing.T) {
		t.Parallel()

		signup := NewHasher(bcrypt.MinCost)
		reset := NewHasher(bcrypt.MinCost + 1)

		hash, err := signup.Hash("SuperSecret1")
		require.NoError(t, err)
		assert.True(t, reset.Verify("SuperSecret1", hash))
	})

	t.Run("embedded cost matches configuration", func(t *testing.T) {
		t.Parallel()

		h := NewHasher(bcrypt.MinCost)
		hash, err := h.Hash("SuperSecret1")
		require.NoError(t, err)

		cost, err := bcrypt.Cost(hash)
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
		assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).Cost())
		assert.Equal(t, SignupCost, NewHasher(SignupCost).Cost())
		assert.Equal(t, ResetCost, NewHasher(ResetCost).Cost())
	})
}
