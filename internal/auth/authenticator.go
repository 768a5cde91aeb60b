// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/gamemate/internal/models"
)

// Authenticator registers accounts and verifies credentials. The credential
// format depends on the implementation.
type Authenticator interface {
	// Register creates an account. Email and name are required.
	Register(ctx context.Context, email, name, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials that are too weak to store.
	ValidateCredential(credential string) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
