// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrVersionConflict is returned by UpdateIfVersion when the stored
	// document changed since it was read.
	ErrVersionConflict = errors.New("document version conflict")
)

// DocumentStore defines the interface for hierarchical JSON document storage.
// Paths alternate collection and document segments, e.g.
// "groups/{groupId}/events/{eventId}". Writes are last-write-wins unless
// UpdateIfVersion is used.
//
// This abstraction allows swapping storage backends (SQLite, a hosted
// document database, etc.) without changing the service layer.
type DocumentStore interface {
	// Get retrieves the document at path.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, path string) (*Document, error)

	// Create stores data as a new document in collection and returns the
	// generated id.
	Create(ctx context.Context, collection string, data any) (string, error)

	// Set writes data to path, creating or replacing the document.
	Set(ctx context.Context, path string, data any) error

	// Update merges fields into the top level of an existing document.
	// Returns ErrNotFound if it does not exist.
	Update(ctx context.Context, path string, fields map[string]any) error

	// UpdateIfVersion behaves like Update but only applies when the stored
	// version equals version. Returns ErrVersionConflict otherwise.
	UpdateIfVersion(ctx context.Context, path string, version int64, fields map[string]any) error

	// Delete removes the document at path.
	// Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, path string) error

	// DeleteTree removes the document at path together with every
	// document nested below it and returns how many were removed.
	DeleteTree(ctx context.Context, path string) (int, error)

	// Query returns the documents of collection matching all filters, in
	// insertion order.
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)

	// Watch calls onChange after every committed write to path or to any
	// document below it. The returned function cancels the subscription.
	Watch(path string, onChange func(Change)) (unsubscribe func())

	// Close releases any resources held by the store.
	Close() error
}

// Document is a stored JSON document.
type Document struct {
	// ID is the last path segment.
	ID string

	// Path is the full document path.
	Path string

	// Collection is the path of the containing collection.
	Collection string

	// Data is the raw JSON body.
	Data json.RawMessage

	// Version starts at 1 and increments on every write.
	Version int64

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// Decode unmarshals the document body into v.
func (d *Document) Decode(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", d.Path, err)
	}
	return nil
}

// ChangeType describes what happened to a watched document.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is delivered to Watch subscribers.
// Document is nil for deletions.
type Change struct {
	Type     ChangeType
	Path     string
	Document *Document
}

// Op is a query filter operator.
type Op string

const (
	// OpEqual matches documents whose field equals the value.
	OpEqual Op = "=="

	// OpArrayContains matches documents whose array field contains the value.
	OpArrayContains Op = "array-contains"
)

// Filter restricts a Query to documents whose top-level Field satisfies Op
// against Value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Where builds a Filter.
func Where(field string, op Op, value any) Filter {
	return Filter{Field: field, Op: op, Value: value}
}
