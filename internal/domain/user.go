package domain

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role decides which API surface a user can reach.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

const minPasswordLength = 8

// User represents a domain user object
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleID     string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewUser creates a regular user with a normalized email.
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:     NormalizeEmail(email),
		Name:      name,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) Validate() error {
	if u.Email == "" {
		return NewValidationError("email", "email is required")
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return NewValidationError("password", "password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
