package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// The document id doubles as the authentication identity carried in JWTs.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"-"`

	// Name is the display name shown to other group members.
	Name string `json:"name"`

	// Email is the user's email address (unique).
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"passwordHash,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewUser builds a user with a fresh id and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
