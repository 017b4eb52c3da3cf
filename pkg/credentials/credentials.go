// pkg/credentials/credentials.go

// Package credentials generates and verifies the client_id / client_secret
// pairs issued to empresas for private API access.
//
// The plaintext secret exists only in the admin response that created it;
// storage only ever sees the bcrypt hash.
package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	clientIDBytes     = 24 // 192 bits
	clientSecretBytes = 32 // 256 bits
)

// GenerateClientID returns a random URL-safe public identifier. Uniqueness is
// enforced by the store's unique constraint, not here.
func GenerateClientID() (string, error) {
	return randomToken(clientIDBytes)
}

// GenerateClientSecret returns a random URL-safe secret with 256 bits of
// entropy. It is shown to the administrator exactly once.
func GenerateClientSecret() (string, error) {
	return randomToken(clientSecretBytes)
}

// HashSecret hashes a plaintext secret for storage. bcrypt salts per call, so
// hashing the same secret twice yields different outputs.
func HashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(h), nil
}

// VerifySecret reports whether presented matches the stored hash. A mismatch
// is a plain false, never an error; the comparison re-derives the hash with
// the stored salt inside bcrypt itself.
func VerifySecret(presented, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(presented)) == nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
