package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderFernadez/Api-DGA/config"
)

func newTestJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT = &config.JWTConfig{
		Secret:          "test-secret-key-0123456789abcdef-0123456789",
		Issuer:          "api-dga-test",
		Audience:        "api-dga-test-clients",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}

	return cfg
}

func TestJWTService_GenerateAndValidateAccessToken(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateAccessToken(42, "Alice", "alice@example.com", []string{"User", "Admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	assert.True(t, svc.Validate(token))

	subject, err := svc.ParseSubjectID(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), subject)

	email, err := svc.ParseEmail(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", email)

	roles, err := svc.ParseRoles(token)
	assert.NoError(t, err)
	assert.Equal(t, []string{"User", "Admin"}, roles)
}

func TestJWTService_EmptyRoleClaim(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	// Token validity is independent of role count.
	token, _, err := svc.GenerateAccessToken(7, "Norole", "norole@example.com", nil)
	require.NoError(t, err)
	assert.True(t, svc.Validate(token))

	roles, err := svc.ParseRoles(token)
	assert.NoError(t, err)
	assert.Empty(t, roles)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.JWT.AccessTokenTTL = -time.Minute

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(1, "Expired", "expired@example.com", nil)
	require.NoError(t, err)
	assert.False(t, svc.Validate(token))
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	otherKey := newTestJWTConfig()
	otherKey.JWT.Secret = "another-secret-key-0123456789abcdef-01234"
	otherIssuer := newTestJWTConfig()
	otherIssuer.JWT.Issuer = "someone-else"
	otherAudience := newTestJWTConfig()
	otherAudience.JWT.Audience = "someone-elses-clients"

	for name, cfg := range map[string]*config.Config{
		"different key":      otherKey,
		"different issuer":   otherIssuer,
		"different audience": otherAudience,
	} {
		foreign, err := NewJWTService(cfg)
		require.NoError(t, err)

		token, _, err := foreign.GenerateAccessToken(1, "Foreign", "foreign@example.com", nil)
		require.NoError(t, err)
		assert.False(t, svc.Validate(token), name)
	}
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	assert.False(t, svc.Validate(""))
	assert.False(t, svc.Validate("clearly-not-a-jwt"))

	_, err = svc.ParseSubjectID("clearly-not-a-jwt")
	assert.Error(t, err)
}

func TestJWTService_RefreshTokenOpacity(t *testing.T) {
	svc, err := NewJWTService(newTestJWTConfig())
	require.NoError(t, err)

	first, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	// 64 bytes of randomness, base64-encoded.
	assert.GreaterOrEqual(t, len(first), 86)

	// A refresh token is not a signed credential.
	assert.False(t, svc.Validate(first))
}

func TestJWTService_WeakSecretRejectedAtStartup(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.JWT.Secret = "too-short"

	svc, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestJWTService_MissingConfigRejected(t *testing.T) {
	cfg := newTestJWTConfig()
	cfg.JWT.Issuer = ""

	svc, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, svc)
}
