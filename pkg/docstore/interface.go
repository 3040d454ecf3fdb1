package docstore

import (
	"context"
	"io"
)

// Store is generic persistence for schema-flexible records in named collections.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create inserts fields as a new document and returns the id assigned by the backend.
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// GetByID returns the document with its id attached. Missing documents yield *NotFoundError.
	GetByID(ctx context.Context, collection, id string) (Document, error)
	// Update merges fields into an existing document. Keys not present are left untouched.
	Update(ctx context.Context, collection, id string, fields Fields) error
	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, collection, id string) error
	// Count returns the number of documents matching every filter, computed by the backend.
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
	// List returns documents matching opt.
	List(ctx context.Context, collection string, opt ListOptions) ([]Document, error)

	io.Closer
}
