package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// newTokenValue returns a fresh opaque token: 32 bytes (256 bits) of
// cryptographic randomness, hex encoded.
func newTokenValue() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token value: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashToken derives the digest stored in place of the raw token value.
func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
