package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database.
// PasswordHash is never serialized in any response.
type UserDB struct {
	UserID       uuid.UUID `json:"id" db:"user_id"`             // Primary key
	Email        string    `json:"email" db:"email"`            // Unique login key
	Name         string    `json:"name" db:"name"`              // Display name
	PasswordHash string    `json:"-" db:"password_hash"`        // bcrypt digest
	CreatedAt    time.Time `json:"created_at" db:"created_at"`  // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`  // Last update timestamp
}

// User is the public view of a user record returned to clients.
// swagger:model User
type User struct {
	// User id
	// example: 7c9e6679-7425-40de-944b-e07fc1f90ae7
	ID uuid.UUID `json:"id"`

	// Email
	// example: a@x.com
	Email string `json:"email"`

	// Display name
	// example: Alice
	Name string `json:"name"`
}

// PublicView converts a database record to its client-facing shape.
func (u *UserDB) PublicView() User {
	return User{
		ID:    u.UserID,
		Email: u.Email,
		Name:  u.Name,
	}
}
