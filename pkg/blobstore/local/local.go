// Package local implements blobstore.Store on a directory tree, for single-node deployments
// that serve photos themselves.
package local

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"resale-inventory/pkg/blobstore"
)

// Route is where the HTTP server mounts the files of a local store.
const Route = "/files"

const tmpMarker = ".tmp-"

// Options configures a Store.
type Options struct {
	// Root is the directory objects are written under.
	Root string
	// BaseURL prefixes every download URL, e.g. http://localhost:8080/files.
	BaseURL string
	// Bucket is reported in handles.
	Bucket string
}

// Store keeps each object as a file named by its path below Root.
type Store struct {
	fs  afero.Fs
	opt Options
}

var _ blobstore.Store = (*Store)(nil)

// New creates Root if needed and confines every object to it.
func New(opt Options) (*Store, error) {
	if opt.Root == "" {
		return nil, errors.New("local: root is required")
	}
	if opt.BaseURL == "" {
		return nil, errors.New("local: base url is required")
	}
	if err := os.MkdirAll(opt.Root, 0o755); err != nil {
		return nil, err
	}
	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), opt.Root), opt), nil
}

// NewWithFs stores objects in fsys. opt.Root is ignored.
func NewWithFs(fsys afero.Fs, opt Options) *Store {
	return &Store{fs: fsys, opt: opt}
}

func (s *Store) Upload(ctx context.Context, p string, data []byte, contentType string) (blobstore.Handle, error) {
	if err := ctx.Err(); err != nil {
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: p, Err: err}
	}
	if err := checkPath(p); err != nil {
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: p, Err: err}
	}

	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: p, Err: err}
	}

	// Readers never see a partial file.
	tmp := p + tmpMarker + uuid.NewString()
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: p, Err: err}
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: p, Err: err}
	}
	return blobstore.Handle{Bucket: s.opt.Bucket, Path: p}, nil
}

func (s *Store) DownloadURL(ctx context.Context, h blobstore.Handle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
	}
	if err := checkPath(h.Path); err != nil {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: blobstore.ErrNotFound}
	}

	info, err := s.fs.Stat(h.Path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: blobstore.ErrNotFound}
	}
	if err != nil {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
	}
	return FileURL(s.opt.BaseURL, h.Path), nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blobstore.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &blobstore.ReadError{Op: "list", Path: prefix, Err: err}
	}

	// Walk the deepest directory that can hold matches.
	dir := path.Dir(prefix + "_")
	if _, err := s.fs.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return []blobstore.Handle{}, nil
	}

	hs := []blobstore.Handle{}
	err := afero.Walk(s.fs, dir, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name = filepath.ToSlash(name)
		if info.IsDir() || strings.Contains(path.Base(name), tmpMarker) || !strings.HasPrefix(name, prefix) {
			return nil
		}
		hs = append(hs, blobstore.Handle{Bucket: s.opt.Bucket, Path: name})
		return nil
	})
	if err != nil {
		return nil, &blobstore.ReadError{Op: "list", Path: prefix, Err: err}
	}

	sort.Slice(hs, func(i, j int) bool { return hs[i].Path < hs[j].Path })
	return hs, nil
}

// Delete succeeds when the file is already gone. Directories left empty are removed.
func (s *Store) Delete(ctx context.Context, h blobstore.Handle) error {
	if err := ctx.Err(); err != nil {
		return &blobstore.WriteError{Op: "delete", Path: h.Path, Err: err}
	}
	if err := checkPath(h.Path); err != nil {
		return nil
	}

	if err := s.fs.Remove(h.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &blobstore.WriteError{Op: "delete", Path: h.Path, Err: err}
	}

	for dir := path.Dir(h.Path); dir != "."; dir = path.Dir(dir) {
		empty, err := afero.IsEmpty(s.fs, dir)
		if err != nil || !empty || s.fs.Remove(dir) != nil {
			break
		}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// FileURL joins baseURL and the escaped segments of p.
func FileURL(baseURL, p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(segs, "/")
}

func checkPath(p string) error {
	if !fs.ValidPath(p) || p == "." {
		return errors.New("invalid object path")
	}
	return nil
}
