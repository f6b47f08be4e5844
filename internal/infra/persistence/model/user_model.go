// Package model holds the GORM table mappings for the persistence layer.
package model

import (
	"time"
)

// UserModel mirrors the 'users' table. The refresh token column carries a
// unique index so redemption is an indexed lookup, never a table scan, and
// the database itself guarantees at most one account per token value.
type UserModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`

	RefreshToken          *string `gorm:"type:varchar(255);uniqueIndex"`
	RefreshTokenExpiresAt *time.Time

	CreatedAt   time.Time
	LastLoginAt *time.Time

	UserRoles []UserRoleModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
