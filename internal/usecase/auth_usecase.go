// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required to authenticate an account.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshInput carries the opaque refresh token being redeemed.
type RefreshInput struct {
	RefreshToken string
}

// RevokeInput carries the opaque refresh token being invalidated.
type RevokeInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// UserInfo is the credential-free view of an account returned to callers.
type UserInfo struct {
	ID          int64
	Name        string
	Email       string
	IsActive    bool
	Roles       []string
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// RegisterOutput returns the newly created account's basic information.
// Registration issues no tokens; the caller logs in separately.
type RegisterOutput struct {
	User *UserInfo
}

// LoginOutput returns the token pair minted on successful authentication.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *UserInfo
}

// RefreshOutput returns the replacement token pair after rotation.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *UserInfo
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, input RefreshInput) (*RefreshOutput, error)
	Revoke(ctx context.Context, input RevokeInput) error
	ValidateAccessToken(ctx context.Context, token string) bool
	ListUsers(ctx context.Context) ([]*UserInfo, error)
}
