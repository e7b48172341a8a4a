// Package credential implements the capability secret used to prove edit
// rights. A credential is an opaque high-entropy token held by the client;
// the server only ever stores its SHA-256 digest.
package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// secretBytes is the raw entropy per credential. 32 bytes = 256 bits.
const secretBytes = 32

// MinLength is the shortest hex secret the server accepts. Anything shorter
// is rejected as malformed before it reaches the store.
const MinLength = 32

// Generate returns a new hex-encoded credential secret.
func Generate() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate credential: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Hash derives the storable one-way digest of a credential secret.
func Hash(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Verify reports whether the supplied secret matches the stored owner digest.
// The comparison is constant-time.
func Verify(secret string, ownerHash []byte) bool {
	candidate := Hash(secret)
	return subtle.ConstantTimeCompare(candidate, ownerHash) == 1
}

// WellFormed reports whether a supplied secret looks like a credential at all:
// hex-encoded and long enough. It says nothing about whether it matches any
// stored owner digest.
func WellFormed(secret string) bool {
	if len(secret) < MinLength {
		return false
	}
	_, err := hex.DecodeString(secret)
	return err == nil
}
