package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/docstore"
	dsmemory "resale-inventory/pkg/docstore/memory"
)

func TestDetail_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Detail(context.Background(), "nope")

	var nf *item.ItemNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDetail_TransportFailureKeepsCause(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("deadline exceeded")

	id := mustCreate(t, f, catan())
	f.docs.FailOn(dsmemory.OpGet, id, boom)

	_, err := f.uc.Detail(ctx, id)
	assert.ErrorIs(t, err, item.ErrItemNotFound)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, docstore.ErrNotFound)

	var readErr *docstore.ReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestUpdateEntire_Missing(t *testing.T) {
	f := newFixture(t)

	it := catan().Item()
	err := f.uc.UpdateEntire(context.Background(), "nope", it)

	assert.ErrorIs(t, err, item.ErrItemNotFound)
	var writeErr *item.StoreWriteError
	assert.ErrorAs(t, err, &writeErr)
}

func TestUpdateEntire_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreate(t, f, catan())

	it, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	it.Status = "ARCHIVED"

	assert.ErrorIs(t, f.uc.UpdateEntire(ctx, id, it), item.ErrInvalidItem)

	after, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, item.StatusNotListed, after.Status)
}

func TestUpdateEntire_StoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("unavailable")
	id := mustCreate(t, f, catan())
	f.docs.FailOn(dsmemory.OpUpdate, id, boom)

	err := f.uc.UpdateEntire(ctx, id, catan().Item())

	var writeErr *item.StoreWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.NotErrorIs(t, err, item.ErrItemNotFound)
	assert.ErrorIs(t, err, boom)
}

func TestUpdateEntire_SoldOnUnlistedPlatformIsAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreate(t, f, catan())

	it, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	price := 60.0
	pos := item.PlatformKijiji
	it.Status = item.StatusSold
	it.SalePrice = &price
	it.PlatformOfSale = &pos
	it.ListedPlatforms = []item.Platform{item.PlatformEbay}

	require.NoError(t, f.uc.UpdateEntire(ctx, id, it))

	after, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, after.PlatformOfSale)
	assert.Equal(t, item.PlatformKijiji, *after.PlatformOfSale)
	assert.InDelta(t, 60.0, *after.SalePrice, 0.001)
}
