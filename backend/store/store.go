// Package store is a thin facade over a collection-keyed document store.
// Services depend on the Store interface so tests can run against the
// in-memory implementation while production runs against Firestore.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("store: document not found")
	ErrExists   = errors.New("store: document already exists")
)

// Doc pairs a document id with its data, for operations that return many
// documents at once.
type Doc struct {
	ID   string
	Data map[string]interface{}
}

type Store interface {
	// Get returns the document data, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)

	// Set writes the document, replacing any existing content.
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Merge writes the given fields into the document, creating it if absent
	// and leaving other fields untouched.
	Merge(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Update overwrites the given fields of an existing document, or returns
	// ErrNotFound.
	Update(ctx context.Context, collection, id string, data map[string]interface{}) error

	// Delete removes the document. Deleting an absent document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// Add writes a new document under a store-generated id and returns the id.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)

	// Create writes the document only if it does not exist yet, otherwise
	// returns ErrExists. This is the conditional write used to keep
	// check-then-create flows race-free.
	Create(ctx context.Context, collection, id string, data map[string]interface{}) error

	// QueryByField returns all documents whose field equals value.
	QueryByField(ctx context.Context, collection, field string, value interface{}) ([]Doc, error)

	// All streams every document of the collection. Order is store-defined.
	All(ctx context.Context, collection string) ([]Doc, error)

	// ArrayUnion appends elems to an array field, skipping values already
	// present (set-union by value), creating the document if needed.
	ArrayUnion(ctx context.Context, collection, id, field string, elems ...interface{}) error

	Close() error
}
