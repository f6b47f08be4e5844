// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"time"

	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for user persistence.
var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrRefreshTokenNotFound is returned when no account holds the given refresh token.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenSuperseded is returned when a conditional refresh-token
	// update finds the stored token no longer matches the expected value.
	// Under concurrent redemption exactly one caller wins; the rest see this.
	ErrRefreshTokenSuperseded = errors.New("refresh token superseded")
)

// UserRepository defines the standard operations for user persistence.
// The application layer depends on this interface, not the concrete
// implementation.
//
// The three refresh-token mutators uphold one invariant: the token and its
// expiry change together in a single statement. Rotate and Clear are
// conditional on the currently stored token so concurrent redemptions of the
// same stale token serialize at the database.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	// The match is exact and case-sensitive.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByIDWithRoles retrieves a user together with all their role
	// assignments and the assigned roles.
	FindByIDWithRoles(ctx context.Context, id int64) (*entity.User, error)

	// FindByRefreshToken retrieves the user holding exactly this refresh
	// token, using the unique index on the token column. Expiry is not
	// checked here; callers decide what an expired match means.
	FindByRefreshToken(ctx context.Context, token string) (*entity.User, error)

	// ExistsByEmail reports whether an account with this email already exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a new user entity and fills in generated fields.
	Create(ctx context.Context, user *entity.User) error

	// UpdateLastLogin stamps the user's last successful login time.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// SetRefreshToken unconditionally stores a new refresh token and expiry
	// for the user, superseding whatever was there before.
	SetRefreshToken(ctx context.Context, id int64, token string, expiresAt time.Time) error

	// RotateRefreshToken replaces current with next if and only if current is
	// still the stored token. Returns ErrRefreshTokenSuperseded when another
	// caller rotated or revoked first.
	RotateRefreshToken(ctx context.Context, id int64, current, next string, expiresAt time.Time) error

	// ClearRefreshToken removes the stored token and expiry together, if and
	// only if current is still the stored token. Returns
	// ErrRefreshTokenSuperseded when it is not.
	ClearRefreshToken(ctx context.Context, id int64, current string) error

	// List returns all users. Credential material is the caller's problem to
	// strip before exposure.
	List(ctx context.Context) ([]*entity.User, error)
}
