package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hyphalab/authkit/pkg/auth"
	"github.com/hyphalab/authkit/pkg/pg"
)

// TokenStore implements auth.ResetTokenStore over PostgreSQL. The unique
// index on email makes the insert an upsert, so at most one live token per
// email exists at the storage level regardless of caller behavior.
type TokenStore struct {
	pool *pgxpool.Pool
}

// NewTokenStore creates a reset token store on the given pool.
func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

const findResetTokenQuery = `
SELECT token, email, expires_at
FROM reset_tokens
WHERE token = $1`

func (s *TokenStore) FindResetToken(ctx context.Context, tok string) (*auth.ResetToken, error) {
	var rt auth.ResetToken
	err := s.pool.QueryRow(ctx, findResetTokenQuery, tok).Scan(&rt.Token, &rt.Email, &rt.ExpiresAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}
	return &rt, nil
}

const insertResetTokenQuery = `
INSERT INTO reset_tokens (token, email, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (email) DO UPDATE
SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`

func (s *TokenStore) InsertResetToken(ctx context.Context, rt *auth.ResetToken) error {
	if _, err := s.pool.Exec(ctx, insertResetTokenQuery, rt.Token, rt.Email, rt.ExpiresAt); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteResetTokensForEmail(ctx context.Context, emailAddr string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM reset_tokens WHERE email = $1`, emailAddr); err != nil {
		return fmt.Errorf("delete reset tokens for email: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteResetToken(ctx context.Context, tok string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM reset_tokens WHERE token = $1`, tok); err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	return nil
}

var _ auth.ResetTokenStore = (*TokenStore)(nil)
