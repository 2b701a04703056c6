package token

import "errors"

var (
	ErrTokenTooShort = errors.New("token size below minimum")
	ErrEntropySource = errors.New("failed to read from entropy source")
)
