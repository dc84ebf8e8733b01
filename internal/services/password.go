package services

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher abstracts the password digest algorithm so services never
// depend on a concrete scheme.
type PasswordHasher interface {
	// Hash derives a storable digest from a plaintext password
	Hash(plaintext string) (string, error)

	// Verify reports whether the plaintext matches the stored digest
	Verify(plaintext, digest string) bool
}

// BcryptHasher is the default PasswordHasher backed by bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash derives a bcrypt digest from the plaintext
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
