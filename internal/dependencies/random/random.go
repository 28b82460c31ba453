package random

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// tokenBytes is the entropy in a session token
const tokenBytes = 32

// Random provides identifier generation that can be mocked for testing
type Random interface {
	// ID returns a new unique identifier for a stored entity
	ID() string

	// Token returns an unguessable bearer credential
	Token() string
}

// CryptoRandom implements Random using uuid v4 and crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// ID returns a random UUID string
func (r *CryptoRandom) ID() string {
	return uuid.NewString()
}

// Token returns 32 random bytes, base64url encoded
func (r *CryptoRandom) Token() string {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand.Read never fails on supported platforms
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
