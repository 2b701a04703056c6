package auth

import "errors"

// Identity errors
var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Reset token errors
var (
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenNotFound = errors.New("token not found")
)

// Session errors
var (
	ErrMissingSigningKey = errors.New("missing session signing key")
	ErrNotAuthenticated  = errors.New("session requires an allow result")
	ErrSessionInvalid    = errors.New("invalid session token")
)

// OAuth errors
var (
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrInvalidCode     = errors.New("invalid oauth code")
	ErrNoPrimaryEmail  = errors.New("no primary email from provider")
	ErrUnverifiedEmail = errors.New("email not verified by provider")
)
