package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"resale-inventory/pkg/blobstore"
)

// Op names a Store method for fault injection.
type Op string

const (
	OpUpload      Op = "upload"
	OpDownloadURL Op = "download_url"
	OpList        Op = "list"
	OpDelete      Op = "delete"
)

type fault struct {
	op   Op
	path string
	err  error
}

// Object is a stored blob.
type Object struct {
	Data        []byte
	ContentType string
}

// Store is an in-process blobstore.Store for one bucket.
type Store struct {
	bucket string

	mu      sync.RWMutex
	objects map[string]Object
	faults  []fault
}

var _ blobstore.Store = (*Store)(nil)

// New creates an empty Store for bucket.
func New(bucket string) *Store {
	return &Store{bucket: bucket, objects: make(map[string]Object)}
}

// FailOn makes subsequent calls of op on path fail with err. An empty path matches every path.
// For List the path is compared against the prefix.
func (s *Store) FailOn(op Op, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, path: path, err: err})
}

// ClearFaults removes every injected fault.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

// Object returns the stored object at path.
func (s *Store) Object(path string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[path]
	return o, ok
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *Store) injected(op Op, path string) error {
	for _, f := range s.faults {
		if f.op == op && (f.path == "" || f.path == path) {
			return f.err
		}
	}
	return nil
}

func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) (blobstore.Handle, error) {
	if err := ctx.Err(); err != nil {
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpUpload, path); err != nil {
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: path, Err: err}
	}

	s.objects[path] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
	return blobstore.Handle{Bucket: s.bucket, Path: path}, nil
}

func (s *Store) DownloadURL(ctx context.Context, h blobstore.Handle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.injected(OpDownloadURL, h.Path); err != nil {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
	}
	if _, ok := s.objects[h.Path]; !ok {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: blobstore.ErrNotFound}
	}
	return "memory://" + s.bucket + "/" + h.Path, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blobstore.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &blobstore.ReadError{Op: "list", Path: prefix, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.injected(OpList, prefix); err != nil {
		return nil, &blobstore.ReadError{Op: "list", Path: prefix, Err: err}
	}

	hs := []blobstore.Handle{}
	for p := range s.objects {
		if strings.HasPrefix(p, prefix) {
			hs = append(hs, blobstore.Handle{Bucket: s.bucket, Path: p})
		}
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i].Path < hs[j].Path })
	return hs, nil
}

func (s *Store) Delete(ctx context.Context, h blobstore.Handle) error {
	if err := ctx.Err(); err != nil {
		return &blobstore.WriteError{Op: "delete", Path: h.Path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpDelete, h.Path); err != nil {
		return &blobstore.WriteError{Op: "delete", Path: h.Path, Err: err}
	}
	delete(s.objects, h.Path)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
