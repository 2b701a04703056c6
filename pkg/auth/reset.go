package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hyphalab/authkit/pkg/email"
	"github.com/hyphalab/authkit/pkg/logger"
	"github.com/hyphalab/authkit/pkg/sanitizer"
	"github.com/hyphalab/authkit/pkg/token"
	"github.com/hyphalab/authkit/pkg/validator"
)

// ResetToken is a single-use, time-boxed token granting the right to set a
// new password for an email. At most one live token exists per email.
type ResetToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its lifetime at the given
// instant.
func (t *ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// ResetTokenStore defines the storage operations required for reset token
// lifecycle management.
type ResetTokenStore interface {
	// FindResetToken returns ErrTokenNotFound for unknown tokens.
	FindResetToken(ctx context.Context, tok string) (*ResetToken, error)
	// InsertResetToken persists a token. Backends that can should replace
	// any existing token for the same email in the same atomic write.
	InsertResetToken(ctx context.Context, rt *ResetToken) error
	// DeleteResetTokensForEmail removes every token for the email; deleting
	// none is not an error.
	DeleteResetTokensForEmail(ctx context.Context, emailAddr string) error
	// DeleteResetToken removes a single token; deleting a missing token is
	// not an error.
	DeleteResetToken(ctx context.Context, tok string) error
}

// PasswordResetRequest carries a freshly issued reset token and its expiry.
type PasswordResetRequest struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// ResetManager issues, validates and consumes password reset tokens.
//
// The per-email state machine is NoToken -> Live -> Consumed or Expired;
// requesting again from any state restarts at Live and invalidates the
// previous token. ConfirmReset never trusts cached state: it re-checks
// existence and expiry on every call, so a half-finished concurrent request
// cannot resurrect a dead token.
type ResetManager struct {
	identities       IdentityStore
	tokens           ResetTokenStore
	hasher           Hasher
	mailer           email.EmailSender
	appURL           string
	tokenTTL         time.Duration
	mailTimeout      time.Duration
	logger           *slog.Logger
	passwordStrength validator.PasswordStrengthConfig
}

// ResetOption configures a ResetManager during construction.
type ResetOption func(*ResetManager)

// WithResetLogger sets a custom logger for the manager.
func WithResetLogger(logger *slog.Logger) ResetOption {
	return func(m *ResetManager) {
		m.logger = logger
	}
}

// WithResetHasher sets the hasher used when a new password is set via reset.
func WithResetHasher(h Hasher) ResetOption {
	return func(m *ResetManager) {
		m.hasher = h
	}
}

// WithResetTokenTTL sets the lifetime of issued tokens.
func WithResetTokenTTL(ttl time.Duration) ResetOption {
	return func(m *ResetManager) {
		m.tokenTTL = ttl
	}
}

// WithResetMailer enables out-of-band delivery of the reset link. The
// mailer is called asynchronously; delivery failures are logged and never
// surfaced to the requester. appURL is the external base URL the reset
// link is built from.
func WithResetMailer(mailer email.EmailSender, appURL string) ResetOption {
	return func(m *ResetManager) {
		m.mailer = mailer
		m.appURL = appURL
	}
}

// WithResetPasswordStrength sets custom password strength requirements for
// the new password accepted by ConfirmReset.
func WithResetPasswordStrength(config validator.PasswordStrengthConfig) ResetOption {
	return func(m *ResetManager) {
		m.passwordStrength = config
	}
}

// NewResetManager creates a reset token manager over the given stores.
func NewResetManager(identities IdentityStore, tokens ResetTokenStore, opts ...ResetOption) *ResetManager {
	m := &ResetManager{
		identities:       identities,
		tokens:           tokens,
		hasher:           NewHasher(ResetCost),
		tokenTTL:         1 * time.Hour,
		mailTimeout:      10 * time.Second,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		passwordStrength: validator.DefaultPasswordStrength(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RequestReset issues a new reset token for a known email, invalidating any
// previous one.
//
// For unknown emails it returns (nil, nil): a success-shaped no-op, so the
// HTTP layer can answer identically whether or not the email is registered.
// Returns validator.ValidationErrors for malformed input; a non-nil error
// otherwise always means an infrastructure fault.
func (m *ResetManager) RequestReset(ctx context.Context, emailAddr string) (*PasswordResetRequest, error) {
	emailAddr = sanitizer.NormalizeEmail(emailAddr)

	if err := validator.Apply(
		validator.ValidEmail("email", emailAddr),
	); err != nil {
		return nil, err
	}

	_, err := m.identities.GetIdentityByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	// Superseding first keeps at most one live token per email even if the
	// insert below fails.
	if err := m.tokens.DeleteResetTokensForEmail(ctx, emailAddr); err != nil {
		return nil, fmt.Errorf("failed to invalidate previous tokens: %w", err)
	}

	tok, err := token.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}

	rt := &ResetToken{
		Token:     tok,
		Email:     emailAddr,
		ExpiresAt: time.Now().Add(m.tokenTTL),
	}

	if err := m.tokens.InsertResetToken(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	req := &PasswordResetRequest{
		Email:     rt.Email,
		Token:     rt.Token,
		ExpiresAt: rt.ExpiresAt,
	}

	if m.mailer != nil {
		m.deliverAsync(req)
	}

	return req, nil
}

// ConfirmReset validates a token, sets the new password and consumes the
// token in the same logical step, so a replayed confirmation always fails
// with ErrTokenInvalid. An expired token is deleted as a side effect of the
// check and fails with ErrTokenExpired.
func (m *ResetManager) ConfirmReset(ctx context.Context, tok, newPassword string) (*Identity, error) {
	if err := validator.Apply(
		validator.StrongPassword("password", newPassword, m.passwordStrength),
		validator.NotCommonPassword("password", newPassword),
	); err != nil {
		return nil, err
	}

	rt, err := m.tokens.FindResetToken(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	if rt.Expired(time.Now()) {
		// Expired tokens are never revived; remove on detection.
		if err := m.tokens.DeleteResetToken(ctx, rt.Token); err != nil {
			m.logger.ErrorContext(ctx, "failed to delete expired reset token",
				logger.Error(err),
				logger.Component("reset"),
			)
		}
		return nil, ErrTokenExpired
	}

	hash, err := m.hasher.Hash(newPassword)
	if err != nil {
		return nil, err
	}

	// UpdatePasswordHash links the credentials method as part of the same
	// write: a first-time password set for an OAuth-only identity is
	// allowed and intentional.
	if err := m.identities.UpdatePasswordHash(ctx, rt.Email, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := m.tokens.DeleteResetToken(ctx, rt.Token); err != nil {
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	identity, err := m.identities.GetIdentityByEmail(ctx, rt.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to reload identity: %w", err)
	}

	m.logger.InfoContext(ctx, "password reset completed",
		logger.IdentityID(identity.ID.String()),
		logger.Component("reset"),
	)

	return identity, nil
}

// deliverAsync sends the reset email without blocking the request path.
// The response to the requester never depends on delivery succeeding.
func (m *ResetManager) deliverAsync(req *PasswordResetRequest) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("reset email delivery panicked",
					slog.Any("panic", r),
					logger.Component("reset"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), m.mailTimeout)
		defer cancel()

		params := email.ResetPasswordParams{
			AppURL:    m.appURL,
			Token:     req.Token,
			ExpiresIn: m.tokenTTL,
		}

		if err := m.mailer.SendEmail(ctx, email.NewResetPasswordEmail(req.Email, params)); err != nil {
			m.logger.Error("failed to send reset email",
				slog.String("email", sanitizer.MaskEmail(req.Email)),
				logger.Error(err),
				logger.Component("reset"),
			)
		}
	}()
}
