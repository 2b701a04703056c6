package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

const (
	// DefaultBytes is the default token size: 256 bits of entropy.
	DefaultBytes = 32
	// MinBytes is the smallest accepted token size. 128 bits is the floor
	// below which brute-forcing a live token stops being impractical.
	MinBytes = 16
)

// Generate returns a new opaque token with DefaultBytes of entropy,
// encoded with unpadded URL-safe base64.
func Generate() (string, error) {
	return GenerateN(DefaultBytes)
}

// GenerateN returns a new opaque token with n bytes of entropy.
// Returns ErrTokenTooShort when n < MinBytes.
func GenerateN(n int) (string, error) {
	if n < MinBytes {
		return "", ErrTokenTooShort
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrEntropySource, err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
