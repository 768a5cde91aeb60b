// Package sqlite provides a SQLite-backed implementation of the storage.DocumentStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/gamemate/internal/storage"
)

// Ensure SQLiteStore implements storage.DocumentStore
var _ storage.DocumentStore = (*SQLiteStore)(nil)

// fieldName restricts filter fields to plain top-level JSON keys.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const selectColumns = "path, collection, id, data, version, created_at, updated_at"

// SQLiteStore implements storage.DocumentStore using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	watches *watchHub
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers inside this process; other
	// processes are handled by the busy timeout and version checks.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, watches: newWatchHub()}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get retrieves the document at path.
func (s *SQLiteStore) Get(ctx context.Context, path string) (*storage.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM documents WHERE path = ?",
		path,
	)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", path, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// Create inserts data as a new document with a generated UUID.
func (s *SQLiteStore) Create(ctx context.Context, collection string, data any) (string, error) {
	if !storage.ValidCollection(collection) {
		return "", fmt.Errorf("invalid collection path %q", collection)
	}
	body, err := encodeObject(data)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	now := time.Now().Unix()
	doc := &storage.Document{
		ID:         id,
		Path:       collection + "/" + id,
		Collection: collection,
		Data:       body,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO documents ("+selectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		doc.Path, doc.Collection, doc.ID, string(doc.Data), doc.Version, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}

	s.watches.notify(storage.Change{Type: storage.ChangeCreated, Path: doc.Path, Document: doc})
	return id, nil
}

// Set creates or replaces the document at path.
func (s *SQLiteStore) Set(ctx context.Context, path string, data any) error {
	collection, id, err := storage.SplitPath(path)
	if err != nil {
		return err
	}
	body, err := encodeObject(data)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	current, err := scanDocument(tx.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM documents WHERE path = ?", path,
	))

	var change storage.Change
	switch {
	case err == sql.ErrNoRows:
		doc := &storage.Document{
			ID: id, Path: path, Collection: collection, Data: body,
			Version: 1, CreatedAt: now, UpdatedAt: now,
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO documents ("+selectColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			doc.Path, doc.Collection, doc.ID, string(doc.Data), doc.Version, doc.CreatedAt, doc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
		change = storage.Change{Type: storage.ChangeCreated, Path: path, Document: doc}
	case err != nil:
		return fmt.Errorf("failed to read document: %w", err)
	default:
		current.Data = body
		current.Version++
		current.UpdatedAt = now
		_, err = tx.ExecContext(ctx,
			"UPDATE documents SET data = ?, version = ?, updated_at = ? WHERE path = ?",
			string(current.Data), current.Version, current.UpdatedAt, path,
		)
		if err != nil {
			return fmt.Errorf("failed to replace document: %w", err)
		}
		change = storage.Change{Type: storage.ChangeUpdated, Path: path, Document: current}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.watches.notify(change)
	return nil
}

// Update merges fields into an existing document.
func (s *SQLiteStore) Update(ctx context.Context, path string, fields map[string]any) error {
	return s.update(ctx, path, nil, fields)
}

// UpdateIfVersion merges fields only if the stored version matches.
func (s *SQLiteStore) UpdateIfVersion(ctx context.Context, path string, version int64, fields map[string]any) error {
	return s.update(ctx, path, &version, fields)
}

func (s *SQLiteStore) update(ctx context.Context, path string, expected *int64, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanDocument(tx.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM documents WHERE path = ?", path,
	))
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", path, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if expected != nil && *expected != current.Version {
		return fmt.Errorf("%s at version %d, expected %d: %w",
			path, current.Version, *expected, storage.ErrVersionConflict)
	}

	merged, err := mergeFields(current.Data, fields)
	if err != nil {
		return fmt.Errorf("failed to merge fields into %s: %w", path, err)
	}

	now := time.Now().Unix()
	res, err := tx.ExecContext(ctx,
		"UPDATE documents SET data = ?, version = version + 1, updated_at = ? WHERE path = ? AND version = ?",
		string(merged), now, path, current.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", path, storage.ErrVersionConflict)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	current.Data = merged
	current.Version++
	current.UpdatedAt = now
	s.watches.notify(storage.Change{Type: storage.ChangeUpdated, Path: path, Document: current})
	return nil
}

// Delete removes the document at path.
func (s *SQLiteStore) Delete(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", path, storage.ErrNotFound)
	}

	s.watches.notify(storage.Change{Type: storage.ChangeDeleted, Path: path})
	return nil
}

// DeleteTree removes path and every document nested below it.
func (s *SQLiteStore) DeleteTree(ctx context.Context, path string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pattern := escapeLike(path) + "/%"
	rows, err := tx.QueryContext(ctx,
		`SELECT path FROM documents WHERE path = ? OR path LIKE ? ESCAPE '\' ORDER BY rowid`,
		path, pattern,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate documents: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM documents WHERE path = ? OR path LIKE ? ESCAPE '\'`,
		path, pattern,
	); err != nil {
		return 0, fmt.Errorf("failed to delete documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, p := range paths {
		s.watches.notify(storage.Change{Type: storage.ChangeDeleted, Path: p})
	}
	return len(paths), nil
}

// Query returns documents of collection matching all filters, oldest first.
func (s *SQLiteStore) Query(ctx context.Context, collection string, filters ...storage.Filter) ([]storage.Document, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + selectColumns + " FROM documents WHERE collection = ?")
	args := []any{collection}

	for _, f := range filters {
		if !fieldName.MatchString(f.Field) {
			return nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		value, err := sqlValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Field, err)
		}
		switch f.Op {
		case storage.OpEqual:
			sb.WriteString(" AND json_extract(data, ?) = ?")
		case storage.OpArrayContains:
			sb.WriteString(" AND EXISTS (SELECT 1 FROM json_each(documents.data, ?) WHERE json_each.value = ?)")
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
		args = append(args, "$."+f.Field, value)
	}
	sb.WriteString(" ORDER BY rowid")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []storage.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

// Watch subscribes onChange to writes at or below path.
func (s *SQLiteStore) Watch(path string, onChange func(storage.Change)) func() {
	return s.watches.subscribe(path, onChange)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*storage.Document, error) {
	doc := &storage.Document{}
	var data string
	if err := row.Scan(&doc.Path, &doc.Collection, &doc.ID, &data,
		&doc.Version, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.Data = json.RawMessage(data)
	return doc, nil
}

// encodeObject marshals data and checks that it is a JSON object, since
// Update merges at the top level.
func encodeObject(data any) (json.RawMessage, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("document must encode to a JSON object")
	}
	return body, nil
}

func mergeFields(data json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	current := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &current); err != nil {
		return nil, err
	}
	for key, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		current[key] = raw
	}
	return json.Marshal(current)
}

// sqlValue converts a filter value into what json_extract yields for it.
func sqlValue(v any) (any, error) {
	switch val := v.(type) {
	case string, int, int64, float64:
		return val, nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	default:
		return nil, errors.New("unsupported filter value type")
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
