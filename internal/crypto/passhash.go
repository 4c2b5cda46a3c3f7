// Package crypto implements the salted one-way password representation used
// for credential storage and login verification.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters (tuned for server-side hashing).
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

// Hash returns the stored representation of password: a fresh random salt and
// the Argon2id key, both base64-encoded and joined with '$'. Each call
// produces a different representation; equality checks go through Verify.
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(salt) + "$" + base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify reports whether password matches the stored representation.
// Comparison is constant-time. A malformed representation never matches.
func Verify(password, encoded string) bool {
	saltPart, keyPart, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(saltPart)
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(keyPart)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
