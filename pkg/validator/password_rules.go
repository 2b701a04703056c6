package validator

import (
	"fmt"
	"strings"
)

// PasswordStrengthConfig controls the StrongPassword rule.
type PasswordStrengthConfig struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // distinct character classes (upper, lower, digit, special)
}

// DefaultPasswordStrength returns a pragmatic policy: 8-72 characters with
// at least two character classes. The upper bound matches bcrypt's input
// limit so hashing can never fail on a validated password.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      72,
		MinCharClasses: 2,
	}
}

// StrongPassword validates length and character-class variety.
func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < config.MinLength || len(value) > config.MaxLength {
				return false
			}

			charClasses := 0
			if uppercaseRegex.MatchString(value) {
				charClasses++
			}
			if lowercaseRegex.MatchString(value) {
				charClasses++
			}
			if digitRegex.MatchString(value) {
				charClasses++
			}
			if specialCharRegex.MatchString(value) {
				charClasses++
			}

			return charClasses >= config.MinCharClasses
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("password must be %d-%d characters with at least %d character types", config.MinLength, config.MaxLength, config.MinCharClasses),
		},
	}
}

// Frequently compromised passwords that pass the strength rule anyway.
var commonPasswords = map[string]bool{
	"password":    true,
	"password1":   true,
	"password123": true,
	"password!":   true,
	"qwerty123":   true,
	"qwertyuiop":  true,
	"1234567890":  true,
	"123456789":   true,
	"12345678":    true,
	"iloveyou":    true,
	"letmein":     true,
	"trustno1":    true,
	"sunshine":    true,
	"welcome1":    true,
	"admin123":    true,
	"changeme":    true,
}

// NotCommonPassword rejects passwords from the common-password list.
func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !commonPasswords[strings.ToLower(value)]
		},
		Error: ValidationError{
			Field:   field,
			Message: "password is too common, please choose a different one",
		},
	}
}
