package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/gamemate/internal/storage"
	"github.com/mmynk/gamemate/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewPasswordAuthenticator(storage.NewUserDirectory(store))
}

func TestPasswordAuthenticator(t *testing.T) {
	a := newTestAuthenticator(t)
	ctx := context.Background()

	user, err := a.Register(ctx, "  Anna@Example.com ", "Anna", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" || user.Email != "anna@example.com" || user.Name != "Anna" {
		t.Errorf("user = %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Error("password should be stored hashed")
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, "anna@example.com", "Other", "another-password")
		if !errors.Is(err, ErrEmailExists) {
			t.Errorf("got %v, want ErrEmailExists", err)
		}
	})

	t.Run("login", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "ANNA@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID = %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "anna@example.com", "wrong-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("got %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestPasswordAuthenticator_RegisterValidation(t *testing.T) {
	a := newTestAuthenticator(t)

	tests := []struct {
		name     string
		email    string
		display  string
		password string
		wantErr  error
	}{
		{"weak password", "ben@example.com", "Ben", "short", ErrWeakPassword},
		{"bad email", "ben", "Ben", "long-enough", ErrInvalidEmail},
		{"blank name", "ben@example.com", "  ", "long-enough", ErrMissingName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(context.Background(), tt.email, tt.display, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
