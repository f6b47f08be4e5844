package auth

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/SanderFernadez/Api-DGA/config"
	"github.com/SanderFernadez/Api-DGA/internal/domain/service"
)

const (
	// minSecretBytes is the minimum HMAC key strength accepted at start-up.
	minSecretBytes = 32
	// refreshTokenBytes is the entropy of an opaque refresh token before encoding.
	refreshTokenBytes = 64
)

// jwtService is a concrete implementation of the TokenService interface using
// the JWT standard (HS256). Access tokens interoperate with any
// standards-compliant verifier given the same secret, issuer and audience.
type jwtService struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService is the constructor for jwtService. It rejects weak signing
// keys so the process never starts with one; this is the only place the
// secret is checked.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if err := cfg.JWT.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.JWT.Secret) < minSecretBytes {
		return nil, errors.Errorf("jwt secret must be at least %d bytes, got %d", minSecretBytes, len(cfg.JWT.Secret))
	}

	return &jwtService{
		secret:     []byte(cfg.JWT.Secret),
		issuer:     cfg.JWT.Issuer,
		audience:   cfg.JWT.Audience,
		accessTTL:  cfg.JWT.AccessTokenTTL,
		refreshTTL: cfg.JWT.RefreshTokenTTL,
	}, nil
}

// GenerateAccessToken mints a signed access token carrying the identity and
// role claims. Roles are embedded as minted; an empty slice is a valid claim.
func (s *jwtService) GenerateAccessToken(userID int64, name, email string, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	if roles == nil {
		roles = []string{}
	}

	claims := &service.AccessClaims{
		Name:  name,
		Email: email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "failed to sign access token")
	}

	return signed, expiresAt, nil
}

// GenerateRefreshToken returns base64-encoded random bytes. The token has no
// structure; possession plus a matching stored record is the proof of validity.
func (s *jwtService) GenerateRefreshToken() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate refresh token")
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// Validate checks signature, issuer, audience and expiry. No clock-skew
// leeway is granted. All failures collapse to false.
func (s *jwtService) Validate(tokenString string) bool {
	_, err := jwt.ParseWithClaims(tokenString, &service.AccessClaims{}, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	return err == nil
}

// ParseSubjectID extracts the account id claim without verifying the token.
func (s *jwtService) ParseSubjectID(tokenString string) (int64, error) {
	claims, err := s.parseUnverified(tokenString)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid subject claim")
	}

	return id, nil
}

// ParseEmail extracts the email claim without verifying the token.
func (s *jwtService) ParseEmail(tokenString string) (string, error) {
	claims, err := s.parseUnverified(tokenString)
	if err != nil {
		return "", err
	}

	return claims.Email, nil
}

// ParseRoles extracts the role-name claims without verifying the token.
func (s *jwtService) ParseRoles(tokenString string) ([]string, error) {
	claims, err := s.parseUnverified(tokenString)
	if err != nil {
		return nil, err
	}

	return claims.Roles, nil
}

// AccessTokenTTL returns the configured access-token lifetime.
func (s *jwtService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// RefreshTokenTTL returns the configured refresh-token lifetime.
func (s *jwtService) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

func (s *jwtService) keyFunc(token *jwt.Token) (any, error) {
	// Ensure the signing method is what we expect.
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrSignatureInvalid
	}

	return s.secret, nil
}

// parseUnverified decodes claims without checking the signature. Introspection
// only; trust decisions go through Validate.
func (s *jwtService) parseUnverified(tokenString string) (*service.AccessClaims, error) {
	claims := &service.AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token structure")
	}

	return claims, nil
}
