// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the identity record at the heart of the credential subsystem.
// The refresh token fields form an invariant pair: they are always set or
// cleared together, never one without the other.
type User struct {
	ID           int64  // Numeric identifier, generated by the database.
	Email        string // Unique login identifier, stored case-sensitively.
	Name         string // Display name shown in the identity summary.
	PasswordHash string // Opaque salt+derived-key encoding produced by the PasswordHasher.
	IsActive     bool   // Inactive accounts cannot log in.

	// RefreshToken holds the single active refresh token for this account,
	// nil when no session exists. RefreshTokenExpiresAt is nil exactly when
	// RefreshToken is nil.
	RefreshToken          *string
	RefreshTokenExpiresAt *time.Time

	CreatedAt   time.Time
	LastLoginAt *time.Time // nil until the first successful login.

	// UserRoles carries the account's role assignments when loaded with
	// FindByIDWithRoles; empty otherwise.
	UserRoles []UserRole
}

// ActiveRoleNames returns the names of the user's active roles.
// Inactive roles do not confer authority and are excluded from token claims.
func (u *User) ActiveRoleNames() []string {
	names := make([]string, 0, len(u.UserRoles))
	for _, ur := range u.UserRoles {
		if ur.Role != nil && ur.Role.IsActive {
			names = append(names, ur.Role.Name)
		}
	}

	return names
}

// HasValidRefreshToken reports whether the account holds a refresh token
// that has not expired at the given instant.
func (u *User) HasValidRefreshToken(now time.Time) bool {
	return u.RefreshToken != nil && u.RefreshTokenExpiresAt != nil && u.RefreshTokenExpiresAt.After(now)
}
