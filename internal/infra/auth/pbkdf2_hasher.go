// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"github.com/SanderFernadez/Api-DGA/internal/domain/service"
)

// KDF parameters. Changing any of these invalidates previously stored hashes,
// so they are constants rather than configuration.
const (
	saltLength = 16    // 128-bit random salt
	iterations = 10000 // PBKDF2 iteration count
	keyLength  = 32    // 256-bit derived key
	delimiter  = "."
)

// pbkdf2Hasher is a concrete implementation of the PasswordHasher interface
// using PBKDF2 with HMAC-SHA256. Stored values take the form
// "base64(salt).base64(derivedKey)".
type pbkdf2Hasher struct{}

// NewPBKDF2Hasher is the constructor for pbkdf2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewPBKDF2Hasher() service.PasswordHasher {
	return &pbkdf2Hasher{}
}

// Hash generates a fresh random salt and derives a key from the password.
// The only failure mode is entropy-source exhaustion.
func (h *pbkdf2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate password salt")
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(salt) + delimiter + base64.StdEncoding.EncodeToString(key), nil
}

// Verify recomputes the derived key with the stored salt and compares it to
// the stored key in constant time. Malformed stored values fail closed.
func (h *pbkdf2Hasher) Verify(password, encoded string) bool {
	parts := strings.Split(encoded, delimiter)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	derived := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)

	return subtle.ConstantTimeCompare(derived, expected) == 1
}
