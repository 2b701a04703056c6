package account

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hyphalab/authkit/pkg/auth"
)

// Authenticator is the reconciliation surface the HTTP layer depends on.
// *auth.Reconciler satisfies it.
type Authenticator interface {
	Register(ctx context.Context, email, password, name string) (*auth.Identity, error)
	AuthenticatePassword(ctx context.Context, email, password string) (auth.AuthResult, error)
	AuthenticateOAuth(ctx context.Context, provider string, profile auth.ProviderProfile) (auth.AuthResult, error)
}

// PasswordResetter is the reset flow surface. *auth.ResetManager satisfies
// it.
type PasswordResetter interface {
	RequestReset(ctx context.Context, email string) (*auth.PasswordResetRequest, error)
	ConfirmReset(ctx context.Context, token, newPassword string) (*auth.Identity, error)
}

// SessionMinter issues a session token for an allowing result.
// *auth.SessionIssuer satisfies it.
type SessionMinter interface {
	Issue(result auth.AuthResult) (string, error)
}

// Config holds HTTP-layer configuration for the account module.
type Config struct {
	// SecureStateCookie marks the OAuth state cookie Secure; disable only
	// for plain-HTTP local development.
	SecureStateCookie bool          `env:"OAUTH_STATE_COOKIE_SECURE" envDefault:"true"`
	StateTTL          time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
}

// Service exposes registration, sign-in, password reset and OAuth flows
// over HTTP.
type Service struct {
	authn     Authenticator
	resets    PasswordResetter
	sessions  SessionMinter
	providers map[string]auth.ProviderAdapter
	cfg       Config
	logger    *slog.Logger
}

// Option configures a Service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConfig overrides the default HTTP-layer configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithProviders registers OAuth provider adapters, keyed by their method
// label.
func WithProviders(adapters ...auth.ProviderAdapter) Option {
	return func(s *Service) {
		for _, a := range adapters {
			s.providers[a.Provider()] = a
		}
	}
}

// NewService creates the account HTTP service.
func NewService(authn Authenticator, resets PasswordResetter, sessions SessionMinter, opts ...Option) *Service {
	s := &Service{
		authn:     authn,
		resets:    resets,
		sessions:  sessions,
		providers: make(map[string]auth.ProviderAdapter),
		cfg: Config{
			SecureStateCookie: true,
			StateTTL:          10 * time.Minute,
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}
