package blobstore

import (
	"context"
	"io"
)

// Store holds binary objects addressed by slash-separated paths.
type Store interface {
	// Upload writes data at path, replacing any existing object.
	Upload(ctx context.Context, path string, data []byte, contentType string) (Handle, error)
	// DownloadURL resolves a URL from which the object can be fetched.
	DownloadURL(ctx context.Context, h Handle) (string, error)
	// List returns every object whose path starts with prefix. No match is an empty slice.
	List(ctx context.Context, prefix string) ([]Handle, error)
	// Delete removes the object. Deleting a missing object succeeds.
	Delete(ctx context.Context, h Handle) error
	io.Closer
}
