package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/gamemate/internal/models"
)

// UserDirectory resolves and persists user profiles in the users collection.
type UserDirectory struct {
	store DocumentStore
}

// NewUserDirectory creates a UserDirectory backed by store.
func NewUserDirectory(store DocumentStore) *UserDirectory {
	return &UserDirectory{store: store}
}

// CreateUser stores a new user under users/{user.ID}.
func (d *UserDirectory) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return fmt.Errorf("failed to create user: missing id")
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
		user.UpdatedAt = user.CreatedAt
	}
	if err := d.store.Set(ctx, UserPath(user.ID), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser returns the profile stored for userID.
// Returns nil and no error if the user does not exist.
func (d *UserDirectory) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}
	doc, err := d.store.Get(ctx, UserPath(userID))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user := &models.User{}
	if err := doc.Decode(user); err != nil {
		return nil, err
	}
	user.ID = doc.ID
	return user, nil
}

// GetUserByEmail looks a user up by email address.
// Returns nil and no error if no user has that email.
func (d *UserDirectory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := d.store.Query(ctx, UsersCollection, Where("email", OpEqual, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	user := &models.User{}
	if err := docs[0].Decode(user); err != nil {
		return nil, err
	}
	user.ID = docs[0].ID
	return user, nil
}

// GetUserStoreID maps an authentication identity to the profile document id.
// Returns "" when no profile exists for authID.
func (d *UserDirectory) GetUserStoreID(ctx context.Context, authID string) (string, error) {
	user, err := d.GetUser(ctx, authID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	return user.ID, nil
}
