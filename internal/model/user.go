package model

import (
	"strings"
	"time"
)

// Role is a flat permission label.  There is no hierarchy: an admin does not
// implicitly satisfy a "user" requirement.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash is never serialized.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Username     string    `json:"username"`   // users.username (unique)
	Email        string    `json:"email"`      // users.email (unique)
	PasswordHash string    `json:"-"`          // users.password_hash (bcrypt)
	Role         Role      `json:"role"`       // users.role
	IsActive     bool      `json:"is_active"`  // users.is_active
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Response strips everything but the public fields.
func (u *User) Response() UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsActive: u.IsActive}
}

// RegisterRequest is accepted as JSON or form data.  Passwords are capped at
// 72 bytes because bcrypt ignores everything past that.
type RegisterRequest struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

// Normalize trims surrounding whitespace and lower-cases the email.  It runs
// before validation so length limits apply to the stored values.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// LoginRequest mirrors the OAuth2 password form (username + password).
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
