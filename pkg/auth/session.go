package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionConfig holds session issuance configuration.
type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET,required"`
	TTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Issuer string        `env:"SESSION_ISSUER" envDefault:"authkit"`
}

// Claims is the session claim set minted for an authenticated identity.
// It is the full contract between the auth core and whatever transports
// the session; nothing else about the identity leaks into the session.
type Claims struct {
	Subject string // identity id
	Email   string
	Name    string
	Avatar  string
}

// SessionIssuer turns an Allow result into a signed session token. It is a
// stateless transformation: no storage, no revocation list, just claims
// derivation plus HS256 signing.
type SessionIssuer struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
}

// SessionOption configures a SessionIssuer during construction.
type SessionOption func(*SessionIssuer)

// WithSessionTTL sets the lifetime of issued session tokens.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionIssuer) {
		s.ttl = ttl
	}
}

// WithSessionIssuerName sets the "iss" claim of issued tokens.
func WithSessionIssuerName(name string) SessionOption {
	return func(s *SessionIssuer) {
		s.issuer = name
	}
}

// NewSessionIssuer creates a session issuer signing with the given key.
// The key should be at least 32 bytes for HMAC-SHA256.
func NewSessionIssuer(signingKey string, opts ...SessionOption) (*SessionIssuer, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}

	s := &SessionIssuer{
		signingKey: []byte(signingKey),
		ttl:        24 * time.Hour,
		issuer:     "authkit",
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// NewSessionIssuerFromConfig creates a session issuer from environment
// configuration.
func NewSessionIssuerFromConfig(cfg SessionConfig) (*SessionIssuer, error) {
	return NewSessionIssuer(cfg.Secret,
		WithSessionTTL(cfg.TTL),
		WithSessionIssuerName(cfg.Issuer),
	)
}

// Claims derives the session claim set from an authentication result.
// Returns ErrNotAuthenticated for anything but an Allow: a Deny or
// Conflict can never be upgraded into a session by a careless caller.
func (s *SessionIssuer) Claims(result AuthResult) (Claims, error) {
	if !result.Allowed() {
		return Claims{}, ErrNotAuthenticated
	}

	identity := result.Identity()
	return Claims{
		Subject: identity.ID.String(),
		Email:   identity.Email,
		Name:    identity.Name,
		Avatar:  identity.Avatar,
	}, nil
}

// sessionClaims is the JWT wire form of Claims.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// Issue mints a signed session token from an Allow result.
func (s *SessionIssuer) Issue(result AuthResult) (string, error) {
	claims, err := s.Claims(result)
	if err != nil {
		return "", err
	}

	now := time.Now()
	sc := sessionClaims{
		Email: claims.Email,
		Name:  claims.Name,
		Image: claims.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(s.signingKey)
}

// Parse verifies a session token and returns its claims. All failures
// collapse into ErrSessionInvalid; callers have no use for the distinction
// between a bad signature and an expired session.
func (s *SessionIssuer) Parse(tokenString string) (Claims, error) {
	var sc sessionClaims
	tok, err := jwt.ParseWithClaims(tokenString, &sc, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrSessionInvalid
	}

	return Claims{
		Subject: sc.Subject,
		Email:   sc.Email,
		Name:    sc.Name,
		Avatar:  sc.Image,
	}, nil
}
