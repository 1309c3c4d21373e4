package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a closed enum of account roles. Permissions are derived from the
// role through a static capability table, never parsed from free text.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleForeman  Role = "foreman"
	RoleSupply   Role = "supply"
	RoleViewer   Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEngineer, RoleForeman, RoleSupply, RoleViewer:
		return true
	}
	return false
}

// User is a service account: office engineers, site foremen, supply staff.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"full_name" db:"full_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
