package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyphalab/authkit/pkg/auth"
	pkgredis "github.com/hyphalab/authkit/pkg/redis"
)

func TestRedisTokenStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := pkgredis.Connect(ctx, pkgredis.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		RetryInterval:  time.Second,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := NewTokenStore(client)
	emailAddr := "it-" + uuid.NewString() + "@example.com"

	t.Run("round-trip", func(t *testing.T) {
		rt := &auth.ResetToken{
			Token:     uuid.NewString(),
			Email:     emailAddr,
			ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		}
		require.NoError(t, store.InsertResetToken(ctx, rt))

		got, err := store.FindResetToken(ctx, rt.Token)
		require.NoError(t, err)
		assert.Equal(t, rt.Email, got.Email)
		assert.Equal(t, rt.ExpiresAt, got.ExpiresAt.Truncate(time.Second))

		require.NoError(t, store.DeleteResetToken(ctx, rt.Token))
		_, err = store.FindResetToken(ctx, rt.Token)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("insert supersedes previous token", func(t *testing.T) {
		first := &auth.ResetToken{Token: uuid.NewString(), Email: emailAddr, ExpiresAt: time.Now().Add(time.Hour)}
		second := &auth.ResetToken{Token: uuid.NewString(), Email: emailAddr, ExpiresAt: time.Now().Add(time.Hour)}

		require.NoError(t, store.InsertResetToken(ctx, first))
		require.NoError(t, store.InsertResetToken(ctx, second))

		_, err := store.FindResetToken(ctx, first.Token)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)

		got, err := store.FindResetToken(ctx, second.Token)
		require.NoError(t, err)
		assert.Equal(t, emailAddr, got.Email)

		require.NoError(t, store.DeleteResetTokensForEmail(ctx, emailAddr))
		_, err = store.FindResetToken(ctx, second.Token)
		assert.ErrorIs(t, err, auth.ErrTokenNotFound)
	})

	t.Run("deleting missing token is a no-op", func(t *testing.T) {
		assert.NoError(t, store.DeleteResetToken(ctx, "missing"))
		assert.NoError(t, store.DeleteResetTokensForEmail(ctx, "ghost@example.com"))
	})
}
