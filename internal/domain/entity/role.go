// Package entity contains the core business objects of the project.
package entity

import "time"

// Default role names ensured by the database seeder.
const (
	RoleNameAdmin = "Admin"
	RoleNameUser  = "User"
)

// Role is a named grant of authority. Only active roles are considered when
// resolving a principal's claims.
type Role struct {
	ID          int64
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}

// UserRole links a User to a Role with the time of assignment.
type UserRole struct {
	UserID     int64
	RoleID     int64
	AssignedAt time.Time

	// Role is populated when assignments are loaded together with the user.
	Role *Role
}
