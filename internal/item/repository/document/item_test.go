package document_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/internal/item"
	repo "resale-inventory/internal/item/repository"
	"resale-inventory/internal/item/repository/document"
	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/docstore/memory"
	"resale-inventory/pkg/log"
)

func newRepo(t *testing.T) (repo.Repository, *memory.Store) {
	t.Helper()
	store := memory.New()
	return document.New(store, "", log.NewNop()), store
}

func sampleItem() item.Item {
	price := 55.0
	sold := item.PlatformKijiji
	return item.Item{
		Name:            "Catan",
		Cost:            40,
		SalePrice:       &price,
		Picture:         "ignored-on-create",
		Category:        item.CategoryBoardGame,
		Condition:       9,
		Description:     "complete",
		Status:          item.StatusSold,
		IsComplete:      true,
		ListedPlatforms: []item.Platform{item.PlatformEbay, item.PlatformKijiji},
		PlatformOfSale:  &sold,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	r, store := newRepo(t)
	ctx := context.Background()

	id, err := r.CreateItem(ctx, repo.CreateItemOptions{Item: sampleItem()})
	require.NoError(t, err)

	got, err := r.GetItem(ctx, id)
	require.NoError(t, err)

	want := sampleItem()
	want.ID = id
	want.Picture = ""
	want.CreatedAt = got.CreatedAt
	assert.Equal(t, want, got)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

	doc, err := store.GetByID(ctx, document.DefaultCollection, id)
	require.NoError(t, err)
	assert.False(t, doc.Fields.Has("id"), "id must not be written into the payload")
	assert.Equal(t, "BOARD_GAME", doc.Fields["category"])
}

func TestGetMissingWrapsNotFound(t *testing.T) {
	r, _ := newRepo(t)

	_, err := r.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, repo.ErrFailedToGet)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestReplaceKeepsCreatedAt(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	id, err := r.CreateItem(ctx, repo.CreateItemOptions{Item: sampleItem()})
	require.NoError(t, err)
	before, err := r.GetItem(ctx, id)
	require.NoError(t, err)

	next := sampleItem()
	next.Status = item.StatusListed
	next.SalePrice = nil
	next.PlatformOfSale = nil
	next.Picture = "https://example.com/p.jpg"
	next.CreatedAt = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.ReplaceItem(ctx, repo.ReplaceItemOptions{ID: id, Item: next}))

	after, err := r.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, item.StatusListed, after.Status)
	assert.Nil(t, after.SalePrice)
	assert.Nil(t, after.PlatformOfSale)
	assert.Equal(t, "https://example.com/p.jpg", after.Picture)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
}

func TestReplaceMissing(t *testing.T) {
	r, _ := newRepo(t)

	err := r.ReplaceItem(context.Background(), repo.ReplaceItemOptions{ID: "missing", Item: sampleItem()})
	assert.ErrorIs(t, err, repo.ErrFailedToUpdate)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestListAndCountByStatus(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	for _, s := range []item.Status{item.StatusSold, item.StatusListed, item.StatusListed} {
		it := sampleItem()
		it.Status = s
		_, err := r.CreateItem(ctx, repo.CreateItemOptions{Item: it})
		require.NoError(t, err)
	}

	listed, err := r.ListItems(ctx, repo.ListItemsOptions{Status: item.StatusListed})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	n, err := r.CountItems(ctx, repo.CountItemsOptions{Status: item.StatusListed})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err := r.CountItems(ctx, repo.CountItemsOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	r, store := newRepo(t)
	boom := errors.New("unavailable")
	store.FailOn(memory.OpCreate, "", boom)

	_, err := r.CreateItem(context.Background(), repo.CreateItemOptions{Item: sampleItem()})
	assert.ErrorIs(t, err, repo.ErrFailedToInsert)
	assert.ErrorIs(t, err, boom)

	var writeErr *docstore.WriteError
	assert.ErrorAs(t, err, &writeErr)
}
