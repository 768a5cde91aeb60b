package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/gamemate/internal/storage"
)

type testDoc struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
	Completed bool     `json:"completed"`
	Score     int      `json:"score"`
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Create generates ID and version", func(t *testing.T) {
		id, err := store.Create(ctx, "groups", testDoc{Name: "Board Games"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if id == "" {
			t.Fatal("Expected document ID to be generated")
		}

		doc, err := store.Get(ctx, storage.GroupPath(id))
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if doc.ID != id {
			t.Errorf("ID mismatch: got %s, want %s", doc.ID, id)
		}
		if doc.Collection != "groups" {
			t.Errorf("Collection mismatch: got %s", doc.Collection)
		}
		if doc.Version != 1 {
			t.Errorf("Version: got %d, want 1", doc.Version)
		}
		if doc.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		var got testDoc
		if err := doc.Decode(&got); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if got.Name != "Board Games" {
			t.Errorf("Name mismatch: got %s", got.Name)
		}
	})

	t.Run("Create rejects document paths", func(t *testing.T) {
		if _, err := store.Create(ctx, "groups/abc", testDoc{}); err == nil {
			t.Error("Expected error for a document path used as collection")
		}
	})

	t.Run("Get returns ErrNotFound for nonexistent document", func(t *testing.T) {
		_, err := store.Get(ctx, "groups/nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Set creates then replaces", func(t *testing.T) {
		path := storage.UserPath("auth-1")
		if err := store.Set(ctx, path, testDoc{Name: "first"}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, path, testDoc{Name: "second"}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		doc, err := store.Get(ctx, path)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		var got testDoc
		doc.Decode(&got)
		if got.Name != "second" {
			t.Errorf("Name: got %s, want second", got.Name)
		}
		if doc.Version != 2 {
			t.Errorf("Version: got %d, want 2", doc.Version)
		}
	})

	t.Run("Update merges top-level fields", func(t *testing.T) {
		id, _ := store.Create(ctx, "groups", testDoc{Name: "Merge", MemberIDs: []string{"a"}})
		path := storage.GroupPath(id)

		if err := store.Update(ctx, path, map[string]any{"memberIds": []string{"a", "b"}}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		doc, _ := store.Get(ctx, path)
		var got testDoc
		doc.Decode(&got)
		if got.Name != "Merge" {
			t.Errorf("Name should be preserved, got %s", got.Name)
		}
		if len(got.MemberIDs) != 2 {
			t.Errorf("MemberIDs: got %v", got.MemberIDs)
		}
	})

	t.Run("Update returns ErrNotFound for nonexistent document", func(t *testing.T) {
		err := store.Update(ctx, "groups/missing", map[string]any{"name": "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateIfVersion detects conflicts", func(t *testing.T) {
		id, _ := store.Create(ctx, "groups", testDoc{Name: "CAS"})
		path := storage.GroupPath(id)

		if err := store.UpdateIfVersion(ctx, path, 1, map[string]any{"score": 1}); err != nil {
			t.Fatalf("UpdateIfVersion failed: %v", err)
		}
		err := store.UpdateIfVersion(ctx, path, 1, map[string]any{"score": 2})
		if !errors.Is(err, storage.ErrVersionConflict) {
			t.Fatalf("Expected ErrVersionConflict, got %v", err)
		}

		doc, _ := store.Get(ctx, path)
		var got testDoc
		doc.Decode(&got)
		if got.Score != 1 {
			t.Errorf("Score: got %d, want 1", got.Score)
		}
		if doc.Version != 2 {
			t.Errorf("Version: got %d, want 2", doc.Version)
		}
	})

	t.Run("Delete removes document", func(t *testing.T) {
		id, _ := store.Create(ctx, "groups", testDoc{Name: "Doomed"})
		path := storage.GroupPath(id)

		if err := store.Delete(ctx, path); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, path); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, path); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteTree removes nested documents", func(t *testing.T) {
		groupID, _ := store.Create(ctx, "groups", testDoc{Name: "Tree"})
		otherID, _ := store.Create(ctx, "groups", testDoc{Name: "Other"})
		store.Create(ctx, storage.EventsCollection(groupID), testDoc{Name: "e1"})
		store.Create(ctx, storage.EventsCollection(groupID), testDoc{Name: "e2"})
		store.Create(ctx, storage.ChatsCollection(groupID), testDoc{Name: "m1"})
		store.Create(ctx, storage.EventsCollection(otherID), testDoc{Name: "keep"})

		n, err := store.DeleteTree(ctx, storage.GroupPath(groupID))
		if err != nil {
			t.Fatalf("DeleteTree failed: %v", err)
		}
		if n != 4 {
			t.Errorf("Deleted: got %d, want 4", n)
		}

		kept, _ := store.Query(ctx, storage.EventsCollection(otherID))
		if len(kept) != 1 {
			t.Errorf("Other group's events should survive, got %d", len(kept))
		}
	})
}

func TestQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Create(ctx, "items", testDoc{Name: "a", MemberIDs: []string{"u1", "u2"}, Completed: false, Score: 3})
	store.Create(ctx, "items", testDoc{Name: "b", MemberIDs: []string{"u2"}, Completed: true, Score: 3})
	store.Create(ctx, "items", testDoc{Name: "c", MemberIDs: []string{"u3"}, Completed: false, Score: 7})
	store.Create(ctx, "other", testDoc{Name: "d", MemberIDs: []string{"u1"}})

	tests := []struct {
		name    string
		filters []storage.Filter
		want    []string
	}{
		{"no filter returns insertion order", nil, []string{"a", "b", "c"}},
		{"string equality", []storage.Filter{storage.Where("name", storage.OpEqual, "b")}, []string{"b"}},
		{"bool equality", []storage.Filter{storage.Where("completed", storage.OpEqual, false)}, []string{"a", "c"}},
		{"int equality", []storage.Filter{storage.Where("score", storage.OpEqual, 3)}, []string{"a", "b"}},
		{"array contains", []storage.Filter{storage.Where("memberIds", storage.OpArrayContains, "u2")}, []string{"a", "b"}},
		{"combined filters", []storage.Filter{
			storage.Where("memberIds", storage.OpArrayContains, "u2"),
			storage.Where("completed", storage.OpEqual, true),
		}, []string{"b"}},
		{"no match", []storage.Filter{storage.Where("name", storage.OpEqual, "zzz")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := store.Query(ctx, "items", tt.filters...)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(docs) != len(tt.want) {
				t.Fatalf("got %d documents, want %d", len(docs), len(tt.want))
			}
			for i, doc := range docs {
				var got testDoc
				doc.Decode(&got)
				if got.Name != tt.want[i] {
					t.Errorf("doc %d: got %s, want %s", i, got.Name, tt.want[i])
				}
			}
		})
	}

	t.Run("rejects unsafe field names", func(t *testing.T) {
		_, err := store.Query(ctx, "items", storage.Where("name') OR 1=1 --", storage.OpEqual, "x"))
		if err == nil {
			t.Error("Expected error for invalid field name")
		}
	})
}

func TestWatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	groupID, _ := store.Create(ctx, "groups", testDoc{Name: "Watched"})
	chats := storage.ChatsCollection(groupID)

	var changes []storage.Change
	unsubscribe := store.Watch(chats, func(c storage.Change) {
		changes = append(changes, c)
	})

	msgID, _ := store.Create(ctx, chats, testDoc{Name: "hello"})
	store.Update(ctx, chats+"/"+msgID, map[string]any{"name": "edited"})
	store.Update(ctx, storage.GroupPath(groupID), map[string]any{"name": "ignored"})
	store.Delete(ctx, chats+"/"+msgID)

	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3", len(changes))
	}
	wantTypes := []storage.ChangeType{storage.ChangeCreated, storage.ChangeUpdated, storage.ChangeDeleted}
	for i, c := range changes {
		if c.Type != wantTypes[i] {
			t.Errorf("change %d: got %s, want %s", i, c.Type, wantTypes[i])
		}
	}
	if changes[0].Document == nil || changes[0].Document.ID != msgID {
		t.Error("created change should carry the new document")
	}

	unsubscribe()
	store.Create(ctx, chats, testDoc{Name: "after"})
	if len(changes) != 3 {
		t.Errorf("no changes expected after unsubscribe, got %d", len(changes))
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	for i := 0; i < 2; i++ {
		store, err := New(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		var version int
		if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
			t.Fatalf("read user_version: %v", err)
		}
		if version != len(migrations) {
			t.Errorf("user_version = %d, want %d", version, len(migrations))
		}
		store.Close()
	}
}
