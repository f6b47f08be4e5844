package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPBKDF2Hasher_HashAndVerify(t *testing.T) {
	hasher := NewPBKDF2Hasher()

	password := "Passw0rd!"
	encoded, err := hasher.Hash(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, encoded)
	assert.NotEqual(t, password, encoded)

	// Stored format is salt.key, both base64.
	parts := strings.Split(encoded, ".")
	assert.Len(t, parts, 2)

	assert.True(t, hasher.Verify(password, encoded))
	assert.False(t, hasher.Verify("wrong-password", encoded))
}

func TestPBKDF2Hasher_SaltRandomization(t *testing.T) {
	hasher := NewPBKDF2Hasher()

	password := "same password twice"
	first, err := hasher.Hash(password)
	assert.NoError(t, err)
	second, err := hasher.Hash(password)
	assert.NoError(t, err)

	// Different salts produce different encodings, but both verify.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify(password, first))
	assert.True(t, hasher.Verify(password, second))
}

func TestPBKDF2Hasher_VerifyFailsClosed(t *testing.T) {
	hasher := NewPBKDF2Hasher()

	encoded, err := hasher.Hash("Passw0rd!")
	assert.NoError(t, err)

	// Malformed stored values must yield false, never panic.
	assert.False(t, hasher.Verify("Passw0rd!", ""))
	assert.False(t, hasher.Verify("Passw0rd!", "no-delimiter-at-all"))
	assert.False(t, hasher.Verify("Passw0rd!", "too.many.parts"))
	assert.False(t, hasher.Verify("Passw0rd!", "!!!notbase64."+strings.Split(encoded, ".")[1]))
	assert.False(t, hasher.Verify("Passw0rd!", strings.Split(encoded, ".")[0]+".!!!notbase64"))
}

func TestPBKDF2Hasher_EmptyPassword(t *testing.T) {
	hasher := NewPBKDF2Hasher()

	encoded, err := hasher.Hash("")
	assert.NoError(t, err)
	assert.True(t, hasher.Verify("", encoded))
	assert.False(t, hasher.Verify("not empty", encoded))
}
