package blobstore

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no object exists at the handle.
var ErrNotFound = errors.New("object not found")

// ReadError is a failure to list objects or resolve a URL.
type ReadError struct {
	Op   string
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("blobstore read %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is a failure to upload or delete an object.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("blobstore write %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
