// Package blobstoretest holds the behaviour every blobstore.Store backend must share.
package blobstoretest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/pkg/blobstore"
)

// Run exercises newStore against the blobstore.Store contract. Each subtest writes under
// its own prefix.
func Run(t *testing.T, newStore func(t *testing.T) blobstore.Store) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s blobstore.Store, prefix string)
	}{
		{"UploadThenURL", testUploadThenURL},
		{"UploadOverwrites", testUploadOverwrites},
		{"URLOfMissing", testURLOfMissing},
		{"ListPrefix", testListPrefix},
		{"DeleteIdempotent", testDeleteIdempotent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			prefix := fmt.Sprintf("contract-%d/", time.Now().UnixNano())
			tc.fn(t, s, prefix)
		})
	}
}

func testUploadThenURL(t *testing.T, s blobstore.Store, prefix string) {
	ctx := context.Background()

	h, err := s.Upload(ctx, prefix+"catan.jpg", []byte("0123456789"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, prefix+"catan.jpg", h.Path)
	assert.NotEmpty(t, h.Bucket)

	u, err := s.DownloadURL(ctx, h)
	require.NoError(t, err)
	assert.NotEmpty(t, u)
}

func testUploadOverwrites(t *testing.T, s blobstore.Store, prefix string) {
	ctx := context.Background()

	_, err := s.Upload(ctx, prefix+"a", []byte("one"), "text/plain")
	require.NoError(t, err)
	_, err = s.Upload(ctx, prefix+"a", []byte("two"), "text/plain")
	require.NoError(t, err)

	hs, err := s.List(ctx, prefix)
	require.NoError(t, err)
	assert.Len(t, hs, 1)
}

func testURLOfMissing(t *testing.T, s blobstore.Store, prefix string) {
	_, err := s.DownloadURL(context.Background(), blobstore.Handle{Path: prefix + "missing"})
	require.Error(t, err)

	var readErr *blobstore.ReadError
	assert.True(t, errors.As(err, &readErr))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func testListPrefix(t *testing.T, s blobstore.Store, prefix string) {
	ctx := context.Background()

	for _, p := range []string{"items/1/a.jpg", "items/1/b.jpg", "items/10/c.jpg", "items/2/d.jpg"} {
		_, err := s.Upload(ctx, prefix+p, []byte("x"), "image/jpeg")
		require.NoError(t, err)
	}

	hs, err := s.List(ctx, prefix+"items/1/")
	require.NoError(t, err)
	paths := make([]string, 0, len(hs))
	for _, h := range hs {
		paths = append(paths, h.Path)
	}
	assert.ElementsMatch(t, []string{prefix + "items/1/a.jpg", prefix + "items/1/b.jpg"}, paths)

	none, err := s.List(ctx, prefix+"items/3/")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testDeleteIdempotent(t *testing.T, s blobstore.Store, prefix string) {
	ctx := context.Background()

	h, err := s.Upload(ctx, prefix+"gone", []byte("x"), "image/png")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, h))
	require.NoError(t, s.Delete(ctx, h))

	hs, err := s.List(ctx, prefix)
	require.NoError(t, err)
	assert.Empty(t, hs)
}
