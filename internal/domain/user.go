package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidUserEmail   = errors.New("user email is required")
	ErrInvalidRole        = errors.New("role must be one of: user, admin")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
)

// Role is the authorization level of a user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrInvalidRole
	}
}

// User represents a registered storefront account
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Image        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a user with the default role.
func NewUser(name, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Email == "" {
		return nil, ErrInvalidUserEmail
	}
	return user, nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
