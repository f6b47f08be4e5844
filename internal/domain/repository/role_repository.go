// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/SanderFernadez/Api-DGA/internal/domain/entity"
)

// ErrRoleNotFound is returned when a role lookup matches nothing.
var ErrRoleNotFound = errors.New("role not found")

// RoleRepository defines the operations for role persistence and assignment.
type RoleRepository interface {
	// FindByName retrieves a role by its unique name.
	FindByName(ctx context.Context, name string) (*entity.Role, error)

	// Create persists a new role and fills in generated fields.
	Create(ctx context.Context, role *entity.Role) error

	// AssignToUser links a role to a user with the current timestamp.
	AssignToUser(ctx context.Context, userID, roleID int64) error
}
