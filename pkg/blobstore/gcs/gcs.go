// Package gcs implements blobstore.Store on Cloud Storage, including Firebase Storage buckets.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"resale-inventory/pkg/blobstore"
	"resale-inventory/pkg/gcp"
)

// URLMode selects how DownloadURL builds links.
type URLMode string

const (
	// URLModeToken issues Firebase Storage download-token URLs.
	URLModeToken URLMode = "token"
	// URLModeSigned issues V4 signed URLs.
	URLModeSigned URLMode = "signed"
	// URLModePublic links to the public object endpoint.
	URLModePublic URLMode = "public"
)

// TokenMetadataKey is the object metadata key Firebase Storage reads download tokens from.
const TokenMetadataKey = "firebaseStorageDownloadTokens"

const (
	defaultDownloadBaseURL = "https://firebasestorage.googleapis.com"
	defaultSignedURLTTL    = 7 * 24 * time.Hour
)

// Options configures a Store.
type Options struct {
	Bucket          string
	URLMode         URLMode
	DownloadBaseURL string
	SignedURLTTL    time.Duration
	// Signer is used in URLModeSigned. A zero Signer lets the library detect the identity.
	Signer gcp.Signer
}

// Store is a blobstore.Store for one bucket.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	opt    Options
	now    func() time.Time
}

var _ blobstore.Store = (*Store)(nil)

// New creates a storage client and binds it to opt.Bucket.
func New(ctx context.Context, opt Options, clientOpts ...option.ClientOption) (*Store, error) {
	if opt.Bucket == "" {
		return nil, errors.New("gcs: bucket is required")
	}
	switch opt.URLMode {
	case "":
		opt.URLMode = URLModeToken
	case URLModeToken, URLModeSigned, URLModePublic:
	default:
		return nil, fmt.Errorf("gcs: unknown url mode %q", opt.URLMode)
	}
	if opt.DownloadBaseURL == "" {
		opt.DownloadBaseURL = defaultDownloadBaseURL
	}
	if opt.SignedURLTTL <= 0 {
		opt.SignedURLTTL = defaultSignedURLTTL
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &Store{client: client, bucket: client.Bucket(opt.Bucket), opt: opt, now: time.Now}, nil
}

func (s *Store) Upload(ctx context.Context, path string, data []byte, contentType string) (blobstore.Handle, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if s.opt.URLMode == URLModeToken {
		w.Metadata = map[string]string{TokenMetadataKey: uuid.NewString()}
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: path, Err: err}
	}
	if err := w.Close(); err != nil {
		return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: path, Err: err}
	}
	return blobstore.Handle{Bucket: s.opt.Bucket, Path: path}, nil
}

func (s *Store) DownloadURL(ctx context.Context, h blobstore.Handle) (string, error) {
	obj := s.bucket.Object(h.Path)
	attrs, err := obj.Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: blobstore.ErrNotFound}
	}
	if err != nil {
		return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
	}

	switch s.opt.URLMode {
	case URLModeSigned:
		u, err := s.bucket.SignedURL(h.Path, &storage.SignedURLOptions{
			GoogleAccessID: s.opt.Signer.GoogleAccessID,
			PrivateKey:     s.opt.Signer.PrivateKey,
			Method:         "GET",
			Expires:        s.now().Add(s.opt.SignedURLTTL),
			Scheme:         storage.SigningSchemeV4,
		})
		if err != nil {
			return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
		}
		return u, nil

	case URLModePublic:
		return PublicURL(s.opt.Bucket, h.Path), nil
	}

	token := firstToken(attrs.Metadata[TokenMetadataKey])
	if token == "" {
		// Objects uploaded outside this store carry no token yet.
		token = uuid.NewString()
		md := map[string]string{}
		for k, v := range attrs.Metadata {
			md[k] = v
		}
		md[TokenMetadataKey] = token
		if _, err := obj.Update(ctx, storage.ObjectAttrsToUpdate{Metadata: md}); err != nil {
			return "", &blobstore.ReadError{Op: "download_url", Path: h.Path, Err: err}
		}
	}
	return TokenURL(s.opt.DownloadBaseURL, s.opt.Bucket, h.Path, token), nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]blobstore.Handle, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	hs := []blobstore.Handle{}
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &blobstore.ReadError{Op: "list", Path: prefix, Err: err}
		}
		hs = append(hs, blobstore.Handle{Bucket: s.opt.Bucket, Path: attrs.Name})
	}
	return hs, nil
}

// Delete succeeds when the object is already gone.
func (s *Store) Delete(ctx context.Context, h blobstore.Handle) error {
	err := s.bucket.Object(h.Path).Delete(ctx)
	if err == nil || errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return &blobstore.WriteError{Op: "delete", Path: h.Path, Err: err}
}

// Close closes the storage client.
func (s *Store) Close() error {
	return s.client.Close()
}

// TokenURL builds a Firebase Storage download URL.
func TokenURL(baseURL, bucket, path, token string) string {
	q := url.Values{}
	q.Set("alt", "media")
	q.Set("token", token)
	return strings.TrimRight(baseURL, "/") + "/v0/b/" + bucket + "/o/" + url.PathEscape(path) + "?" + q.Encode()
}

// PublicURL builds the unauthenticated object URL.
func PublicURL(bucket, path string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + path}
	return u.String()
}

func firstToken(tokens string) string {
	t, _, _ := strings.Cut(tokens, ",")
	return strings.TrimSpace(t)
}
