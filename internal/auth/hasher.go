package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords using bcrypt. The cost factor is a
// deliberate throughput/security trade-off supplied by configuration.
type Hasher struct {
	cost int
}

// NewHasher creates a password hasher with the given bcrypt cost
func NewHasher(cost int) *Hasher {
	return &Hasher{cost: cost}
}

// Hash produces a self-salted bcrypt digest of the password. A cost outside
// the range bcrypt supports is a configuration error and is returned as such.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A malformed digest counts
// as a mismatch rather than an error; bcrypt compares in constant time.
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
