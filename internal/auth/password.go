package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrHashFailed is returned when bcrypt cannot produce a hash.
var ErrHashFailed = errors.New("failed to hash password")

// PasswordHasher hashes and verifies passwords with bcrypt at a
// configurable cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher. Costs outside bcrypt's supported
// range fall back to the default cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", ErrHashFailed
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored hash. Any
// mismatch or malformed hash is reported as false, never as an error.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
