package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hyphalab/authkit/pkg/auth"
)

// TokenStore implements auth.ResetTokenStore on Redis. Expiry is enforced
// twice: the stored record carries its expiry instant for the manager's
// check, and the keys themselves carry a matching TTL so dead tokens
// vanish without a sweeper.
//
// Two keys exist per live token: one keyed by the token granting lookup,
// and an email index key granting supersession. Writes touch both inside
// a transactional pipeline.
type TokenStore struct {
	client redis.UniversalClient
	prefix string
}

// NewTokenStore creates a reset token store on the given client.
func NewTokenStore(client redis.UniversalClient) *TokenStore {
	return &TokenStore{client: client, prefix: "reset"}
}

type tokenRecord struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *TokenStore) tokenKey(tok string) string {
	return s.prefix + ":token:" + tok
}

func (s *TokenStore) emailKey(emailAddr string) string {
	return s.prefix + ":email:" + emailAddr
}

func (s *TokenStore) FindResetToken(ctx context.Context, tok string) (*auth.ResetToken, error) {
	raw, err := s.client.Get(ctx, s.tokenKey(tok)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, auth.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode reset token: %w", err)
	}

	return &auth.ResetToken{Token: tok, Email: rec.Email, ExpiresAt: rec.ExpiresAt}, nil
}

func (s *TokenStore) InsertResetToken(ctx context.Context, rt *auth.ResetToken) error {
	raw, err := json.Marshal(tokenRecord{Email: rt.Email, ExpiresAt: rt.ExpiresAt})
	if err != nil {
		return fmt.Errorf("encode reset token: %w", err)
	}

	ttl := time.Until(rt.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	// Replace any previous token for the email in the same transaction so
	// a reader never sees two live tokens.
	prev, err := s.client.Get(ctx, s.emailKey(rt.Email)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("look up previous token: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if prev != "" && prev != rt.Token {
			pipe.Del(ctx, s.tokenKey(prev))
		}
		pipe.Set(ctx, s.tokenKey(rt.Token), raw, ttl)
		pipe.Set(ctx, s.emailKey(rt.Email), rt.Token, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteResetTokensForEmail(ctx context.Context, emailAddr string) error {
	tok, err := s.client.Get(ctx, s.emailKey(emailAddr)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("look up token for email: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.tokenKey(tok))
		pipe.Del(ctx, s.emailKey(emailAddr))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete reset tokens for email: %w", err)
	}
	return nil
}

func (s *TokenStore) DeleteResetToken(ctx context.Context, tok string) error {
	rt, err := s.FindResetToken(ctx, tok)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			return nil
		}
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.tokenKey(tok))
		pipe.Del(ctx, s.emailKey(rt.Email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	return nil
}

var _ auth.ResetTokenStore = (*TokenStore)(nil)
