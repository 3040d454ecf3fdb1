// Package docstoretest holds the behaviour every docstore.Store backend must share.
package docstoretest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/pkg/docstore"
)

// Run exercises newStore against the docstore.Store contract. Each subtest gets a fresh
// collection name so backends that share state between stores stay isolated.
func Run(t *testing.T, newStore func(t *testing.T) docstore.Store) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s docstore.Store, collection string)
	}{
		{"CreateThenGet", testCreateThenGet},
		{"GetMissing", testGetMissing},
		{"UpdateMerges", testUpdateMerges},
		{"UpdateMissing", testUpdateMissing},
		{"DeleteIdempotent", testDeleteIdempotent},
		{"Count", testCount},
		{"ListOrderAndPage", testListOrderAndPage},
		{"ServerTimestamp", testServerTimestamp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			collection := fmt.Sprintf("contract_%d", time.Now().UnixNano())
			tc.fn(t, s, collection)
		})
	}
}

func testCreateThenGet(t *testing.T, s docstore.Store, collection string) {
	ctx := context.Background()

	id, err := s.Create(ctx, collection, docstore.Fields{
		"name":     "Catan",
		"price":    45.5,
		"platform": []string{"EBAY", "KIJIJI"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.GetByID(ctx, collection, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Catan", doc.Fields.String("name"))
	price, ok := doc.Fields.Float("price")
	assert.True(t, ok)
	assert.InDelta(t, 45.5, price, 0.0001)
	assert.Equal(t, []string{"EBAY", "KIJIJI"}, doc.Fields.Strings("platform"))
}

func testGetMissing(t *testing.T, s docstore.Store, collection string) {
	_, err := s.GetByID(context.Background(), collection, missingID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, docstore.ErrNotFound), "got %v", err)

	var readErr *docstore.ReadError
	assert.False(t, errors.As(err, &readErr), "missing document must not be a read error")
}

func testUpdateMerges(t *testing.T, s docstore.Store, collection string) {
	ctx := context.Background()

	id, err := s.Create(ctx, collection, docstore.Fields{"name": "Catan", "status": "LISTED"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, collection, id, docstore.Fields{"status": "SOLD", "photoUrl": "u"}))

	doc, err := s.GetByID(ctx, collection, id)
	require.NoError(t, err)
	assert.Equal(t, "Catan", doc.Fields.String("name"))
	assert.Equal(t, "SOLD", doc.Fields.String("status"))
	assert.Equal(t, "u", doc.Fields.String("photoUrl"))
}

func testUpdateMissing(t *testing.T, s docstore.Store, collection string) {
	err := s.Update(context.Background(), collection, missingID, docstore.Fields{"status": "SOLD"})
	require.Error(t, err)

	var writeErr *docstore.WriteError
	assert.True(t, errors.As(err, &writeErr), "got %T", err)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func testDeleteIdempotent(t *testing.T, s docstore.Store, collection string) {
	ctx := context.Background()

	id, err := s.Create(ctx, collection, docstore.Fields{"name": "Dune"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, collection, id))
	require.NoError(t, s.Delete(ctx, collection, id))

	_, err = s.GetByID(ctx, collection, id)
	assert.True(t, errors.Is(err, docstore.ErrNotFound))
}

func testCount(t *testing.T, s docstore.Store, collection string) {
	ctx := context.Background()

	for _, status := range []string{"SOLD", "SOLD", "LISTED", "NOT_LISTED"} {
		_, err := s.Create(ctx, collection, docstore.Fields{"status": status})
		require.NoError(t, err)
	}

	total, err := s.Count(ctx, collection)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	sold, err := s.Count(ctx, collection, docstore.Eq("status", "SOLD"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, sold)

	none, err := s.Count(ctx, collection, docstore.Eq("status", "ARCHIVED"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, none)
}

func testListOrderAndPage(t *testing.T, s docstore.Store, collection string) {
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a", "b", "c", "d"} {
		_, err := s.Create(ctx, collection, docstore.Fields{
			"name":      name,
			"kind":      "game",
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	docs, err := s.List(ctx, collection, docstore.ListOptions{
		Filters: []docstore.Filter{docstore.Eq("kind", "game")},
		OrderBy: "createdAt",
		Desc:    true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, "d", docs[0].Fields.String("name"))
	assert.Equal(t, "a", docs[3].Fields.String("name"))
	assert.True(t, docs[0].Fields.Time("createdAt").Equal(base.Add(3*time.Hour)))

	page, err := s.List(ctx, collection, docstore.ListOptions{
		OrderBy: "createdAt",
		Limit:   2,
		Offset:  1,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b", page[0].Fields.String("name"))
	assert.Equal(t, "c", page[1].Fields.String("name"))
}

func testServerTimestamp(t *testing.T, s docstore.Store, collection string) {
	ctx := context.Background()

	before := time.Now().Add(-time.Minute)
	id, err := s.Create(ctx, collection, docstore.Fields{"createdAt": docstore.ServerTimestamp})
	require.NoError(t, err)

	doc, err := s.GetByID(ctx, collection, id)
	require.NoError(t, err)
	ts := doc.Fields.Time("createdAt")
	assert.True(t, ts.After(before), "createdAt %v should be recent", ts)
	assert.True(t, ts.Before(time.Now().Add(time.Minute)))
}

// missingID is a well-formed id for every backend that is never issued.
const missingID = "000000000000000000000000"
