package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrUserInactive = errors.New("user account is inactive")
var ErrInvalidToken = errors.New("invalid token")
var ErrTokenRevoked = errors.New("token has been revoked")

// Role is the structured role record optionally attached to a user.
// Access control reads Name only; the rest is descriptive.
type Role struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	DisplayName string    `json:"display_name,omitempty" bson:"display_name,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// User models an authenticated actor in the platform. Role is the legacy flat
// role identifier kept for older accounts; RoleDetails, when present, wins
// (see EffectiveRole in roles.go).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role,omitempty"`
	RoleDetails  *Role     `json:"role_details,omitempty"`
	Company      string    `json:"company,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	LastLogin    time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair holds the bearer credentials issued at login. The pair is always
// stored and cleared as a unit; a session never keeps only one half.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
