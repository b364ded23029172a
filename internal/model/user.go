package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleNurse        = "nurse"
	RoleReceptionist = "receptionist"
	RoleStaff        = "staff"
)

// AllowedRoles lists every role a user may be registered with.
var AllowedRoles = []string{RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RoleStaff}

// IsAllowedRole reports whether role is one of the fixed role set,
// case-insensitively.
func IsAllowedRole(role string) bool {
	for _, r := range AllowedRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// User represents a system user. Email and username are globally unique.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FullName     string    `json:"full_name" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Phone        *string   `json:"phone,omitempty" db:"phone"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest carries user registration parameters
type RegisterRequest struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries the issued identity claim
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
