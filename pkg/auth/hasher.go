package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Work factors for the two places a password hash is produced. A hash made
// with either cost verifies the same way, so raising one never locks out
// existing users.
const (
	// SignupCost is the bcrypt cost used when a password is first set.
	SignupCost = 10
	// ResetCost is the bcrypt cost used when a new password is set through
	// the reset flow.
	ResetCost = 12
)

// Hasher wraps bcrypt with a fixed work factor.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Cost returns the configured work factor.
func (h Hasher) Cost() int { return h.cost }

// Hash derives a salted one-way hash of the password. Two calls with the
// same password produce different blobs.
func (h Hasher) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether the password matches the stored hash. Comparison
// timing is handled by bcrypt itself and does not depend on where a
// mismatch occurs.
func (h Hasher) Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
