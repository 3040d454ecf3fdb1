package document

import (
	"fmt"

	"resale-inventory/internal/item/repository"
	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/log"
)

// DefaultCollection is the collection items are stored in.
const DefaultCollection = "items"

type implRepository struct {
	store      docstore.Store
	collection string
	l          log.Logger
}

// New creates a Repository that keeps items as documents in collection.
func New(store docstore.Store, collection string, l log.Logger) repository.Repository {
	if store == nil {
		panic("item/repository/document: store is required")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &implRepository{store: store, collection: collection, l: l}
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("item/repository/document.%s", method)
}
