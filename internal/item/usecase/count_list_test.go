package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/internal/item"
	dsmemory "resale-inventory/pkg/docstore/memory"
)

func seed(t *testing.T, f fixture) {
	t.Helper()
	for _, s := range []struct {
		name   string
		status item.Status
	}{
		{"Catan", item.StatusSold},
		{"Dune", item.StatusListed},
		{"Carcassonne", item.StatusListed},
		{"Ticket to Ride", item.StatusNotListed},
	} {
		in := catan()
		in.Name = s.name
		in.Status = s.status
		mustCreate(t, f, in)
	}
}

func TestCounts_Consistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed(t, f)

	all, err := f.uc.CountAll(ctx)
	require.NoError(t, err)

	listed, err := f.uc.List(ctx, item.ListItemsInput{})
	require.NoError(t, err)
	assert.EqualValues(t, len(listed.Items), all)
	assert.Equal(t, int(all), listed.Total)

	var sum int64
	for _, s := range item.Statuses() {
		n, err := f.uc.CountByStatus(ctx, s)
		require.NoError(t, err)
		sum += n
	}
	assert.LessOrEqual(t, sum, all)
	assert.Equal(t, all, sum)
}

func TestCounts_ReflectDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := mustCreate(t, f, catan())

	n, err := f.uc.CountByStatus(ctx, item.StatusNotListed)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, f.uc.DeleteWithAssets(ctx, id))

	n, err = f.uc.CountByStatus(ctx, item.StatusNotListed)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCountByStatus_Invalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CountByStatus(context.Background(), "ARCHIVED")
	assert.ErrorIs(t, err, item.ErrInvalidItem)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	seed(t, f)

	s, err := f.uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, item.Stats{Total: 4, Sold: 1, Listed: 2, NotListed: 1}, s)
}

func TestStats_Failure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("unavailable")
	f.docs.FailOn(dsmemory.OpCount, "", boom)

	_, err := f.uc.Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed(t, f)

	byStatus, err := f.uc.List(ctx, item.ListItemsInput{Status: item.StatusListed})
	require.NoError(t, err)
	assert.Equal(t, 2, byStatus.Total)
	assert.Len(t, byStatus.Items, 2)

	byName, err := f.uc.List(ctx, item.ListItemsInput{Name: "CA"})
	require.NoError(t, err)
	assert.Equal(t, 2, byName.Total)
	names := []string{byName.Items[0].Name, byName.Items[1].Name}
	assert.ElementsMatch(t, []string{"Catan", "Carcassonne"}, names)

	both, err := f.uc.List(ctx, item.ListItemsInput{Name: "ca", Status: item.StatusListed})
	require.NoError(t, err)
	require.Len(t, both.Items, 1)
	assert.Equal(t, "Carcassonne", both.Items[0].Name)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed(t, f)

	p, err := f.uc.List(ctx, item.ListItemsInput{Limit: 3, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Total)
	assert.Len(t, p.Items, 2)
	assert.Equal(t, 3, p.Limit)
	assert.Equal(t, 2, p.Offset)

	named, err := f.uc.List(ctx, item.ListItemsInput{Name: "a", Limit: 1, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, named.Items)
	assert.Equal(t, 2, named.Total)
}

func TestList_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.List(context.Background(), item.ListItemsInput{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, item.ErrInvalidItem)
}
