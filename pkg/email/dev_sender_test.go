package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyphalab/authkit/pkg/email"
)

func TestDevSender(t *testing.T) {
	t.Parallel()

	t.Run("writes html and metadata files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Reset your password",
			BodyHTML: "<p>link</p>",
			Tag:      "password-reset",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var htmlPath, jsonPath string
		for _, e := range entries {
			switch filepath.Ext(e.Name()) {
			case ".html":
				htmlPath = filepath.Join(dir, e.Name())
			case ".json":
				jsonPath = filepath.Join(dir, e.Name())
			}
			assert.Contains(t, e.Name(), "password-reset")
		}
		require.NotEmpty(t, htmlPath)
		require.NotEmpty(t, jsonPath)

		body, err := os.ReadFile(htmlPath)
		require.NoError(t, err)
		assert.Equal(t, "<p>link</p>", string(body))

		meta, err := os.ReadFile(jsonPath)
		require.NoError(t, err)
		var decoded map[string]string
		require.NoError(t, json.Unmarshal(meta, &decoded))
		assert.Equal(t, "user@example.com", decoded["send_to"])
		assert.Equal(t, "Reset your password", decoded["subject"])
	})

	t.Run("falls back to subject for filename", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		err := sender.SendEmail(context.Background(), email.SendEmailParams{
			SendTo:   "user@example.com",
			Subject:  "Weekly Digest!",
			BodyHTML: "<p>hi</p>",
		})
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.True(t, strings.Contains(e.Name(), "weekly_digest"), e.Name())
		}
	})

	t.Run("rejects invalid params", func(t *testing.T) {
		t.Parallel()

		sender := email.NewDevSender(t.TempDir())
		err := sender.SendEmail(context.Background(), email.SendEmailParams{})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})
}
