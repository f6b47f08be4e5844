package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims defines the claim set carried by an access token.
// The subject is the account id; roles reflect the account's active roles at
// mint time. Tokens are stateless: later role changes do not affect tokens
// already issued.
type AccessClaims struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService defines the interface for minting and checking credentials.
// Access tokens are signed and self-contained; refresh tokens are opaque
// random strings whose only property is unguessability. The asymmetry is
// intentional: stateless short-lived versus stateful long-lived.
type TokenService interface {
	// GenerateAccessToken mints a signed access token for the given identity
	// and role names, returning the token string and its expiry.
	GenerateAccessToken(userID int64, name, email string, roles []string) (token string, expiresAt time.Time, err error)

	// GenerateRefreshToken returns a high-entropy opaque string with no
	// embedded structure.
	GenerateRefreshToken() (string, error)

	// Validate verifies signature, issuer, audience and expiry with no
	// clock-skew tolerance. Every failure collapses to false.
	Validate(tokenString string) bool

	// ParseSubjectID extracts the account id claim without verifying the
	// token. Callers must Validate first when the result is security-relevant.
	ParseSubjectID(tokenString string) (int64, error)

	// ParseEmail extracts the email claim without verifying the token.
	ParseEmail(tokenString string) (string, error)

	// ParseRoles extracts the role-name claims without verifying the token.
	ParseRoles(tokenString string) ([]string, error)

	// AccessTokenTTL returns the configured access-token lifetime.
	AccessTokenTTL() time.Duration

	// RefreshTokenTTL returns the configured refresh-token lifetime.
	RefreshTokenTTL() time.Duration
}
