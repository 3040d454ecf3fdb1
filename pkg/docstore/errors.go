package docstore

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("document not found")

// NotFoundError reports that no document exists at collection/id.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s/%s not found", e.Collection, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReadError is a transport or permission failure while reading from the backend.
type ReadError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("docstore read %s %s: %v", e.Op, target(e.Collection, e.ID), e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a failure while writing to the backend, including updates of missing ids.
type WriteError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("docstore write %s %s: %v", e.Op, target(e.Collection, e.ID), e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func target(collection, id string) string {
	if id == "" {
		return collection
	}
	return collection + "/" + id
}
