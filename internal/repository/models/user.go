package models

import (
	"database/sql"
	"time"
)

// User represents a row of the users table.
type User struct {
	ID           string         `db:"ID"`            // ULID
	Email        string         `db:"EMAIL"`         // Lower-cased login email
	PasswordHash sql.NullString `db:"PASSWORD_HASH"` // bcrypt hash, NULL for Google-only accounts
	GoogleID     sql.NullString `db:"GOOGLE_ID"`     // Google's unique identifier for the user
	Name         sql.NullString `db:"NAME"`
	Role         string         `db:"ROLE"` // "admin" or "user"
	CreatedAt    time.Time      `db:"CREATED_AT"`
	UpdatedAt    time.Time      `db:"UPDATED_AT"`
	DeletedAt    sql.NullTime   `db:"DELETED_AT"`
}
