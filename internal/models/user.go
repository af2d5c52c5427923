package models

import "time"

// Roles recognized by the role middleware.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// ValidateRoles reports whether every role in the slice is recognized.
func ValidateRoles(roles []string) bool {
	if len(roles) == 0 {
		return false
	}
	for _, r := range roles {
		if r != RoleAdmin && r != RoleStaff {
			return false
		}
	}
	return true
}

// User is an operator account of the tracker, not an asset holder. Asset
// holders are referenced by id only.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    *string    `json:"first_name,omitempty"`
	LastName     *string    `json:"last_name,omitempty"`
	Roles        []string   `json:"roles"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// Redacted returns a copy safe for API responses.
func (u User) Redacted() User {
	u.PasswordHash = ""
	return u
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChangePasswordRequest is the body for PUT /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
