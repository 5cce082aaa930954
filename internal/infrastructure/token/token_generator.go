package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// tokenRandomBytes encodes to 43 base64url characters.
const tokenRandomBytes = 32

// Generator issues the tracking tokens handed to issue submitters.
type Generator interface {
	Generate() (string, error)
	Fingerprint(token string) string
}

type tokenGenerator struct{}

func NewGenerator() Generator {
	return &tokenGenerator{}
}

func (g *tokenGenerator) Generate() (string, error) {
	randomBytes := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// Fingerprint returns the SHA-256 hex digest of token, safe for cache keys
// and log fields.
func (g *tokenGenerator) Fingerprint(token string) string {
	return Fingerprint(token)
}

func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
