package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetToken returns a raw password reset secret: 24 bytes of
// cryptographically secure random data, hex encoded (48 characters). Only
// the SHA-256 hash of the raw value is ever persisted.
func NewResetToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken returns the SHA-256 hash of a raw reset token as a hex
// string. Storing only the hash keeps leaked database contents from being
// usable to reset passwords.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
