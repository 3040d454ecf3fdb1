package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/docstore/docstoretest"
	"resale-inventory/pkg/docstore/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContract(t *testing.T) {
	docstoretest.Run(t, func(t *testing.T) docstore.Store {
		return newTestStore(t)
	})
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")
	ctx := context.Background()

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	id, err := s.Create(ctx, "items", docstore.Fields{"name": "Catan", "createdAt": docstore.ServerTimestamp})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlite.Open(path)
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.GetByID(ctx, "items", id)
	require.NoError(t, err)
	assert.Equal(t, "Catan", doc.Fields.String("name"))
	assert.WithinDuration(t, time.Now(), doc.Fields.Time("createdAt"), time.Minute)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "items", docstore.Fields{"status": "SOLD"})
	require.NoError(t, err)
	_, err = s.Create(ctx, "archive", docstore.Fields{"status": "SOLD"})
	require.NoError(t, err)

	n, err := s.Count(ctx, "items", docstore.Eq("status", "SOLD"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRejectsUnsafeFieldNames(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Count(context.Background(), "items", docstore.Eq("status') OR 1=1 --", "x"))
	var readErr *docstore.ReadError
	assert.ErrorAs(t, err, &readErr)
}
