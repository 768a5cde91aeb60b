package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/gamemate/internal/models"
	"github.com/mmynk/gamemate/internal/storage"
	"github.com/mmynk/gamemate/internal/storage/sqlite"
)

func newTestDirectory(t *testing.T) *storage.UserDirectory {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return storage.NewUserDirectory(store)
}

func TestUserDirectory(t *testing.T) {
	dir := newTestDirectory(t)
	ctx := context.Background()

	user := models.NewUser("cleo@example.com", "Cleo", "hash")
	if err := dir.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUser", func(t *testing.T) {
		got, err := dir.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got == nil || got.ID != user.ID || got.Name != "Cleo" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("GetUser missing returns nil", func(t *testing.T) {
		got, err := dir.GetUser(ctx, "missing")
		if err != nil || got != nil {
			t.Errorf("got %+v, %v; want nil, nil", got, err)
		}
	})

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := dir.GetUserByEmail(ctx, "cleo@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID || got.PasswordHash != "hash" {
			t.Errorf("got %+v", got)
		}
		if got, _ := dir.GetUserByEmail(ctx, "nobody@example.com"); got != nil {
			t.Errorf("unknown email returned %+v", got)
		}
	})

	t.Run("GetUserStoreID", func(t *testing.T) {
		id, err := dir.GetUserStoreID(ctx, user.ID)
		if err != nil || id != user.ID {
			t.Errorf("got %q, %v", id, err)
		}
		id, err = dir.GetUserStoreID(ctx, "missing")
		if err != nil || id != "" {
			t.Errorf("missing: got %q, %v", id, err)
		}
	})

	t.Run("CreateUser requires id", func(t *testing.T) {
		if err := dir.CreateUser(ctx, &models.User{Name: "x"}); err == nil {
			t.Error("Expected error for missing id")
		}
	})
}
