package item_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"resale-inventory/internal/item"
)

func validItem() item.Item {
	return item.Item{
		Name:      "Catan",
		Cost:      40,
		Category:  item.CategoryBoardGame,
		Condition: 9,
		Status:    item.StatusNotListed,
	}
}

func TestItemValidate(t *testing.T) {
	neg := -1.0
	bad := item.Platform("CRAIGSLIST")

	tests := []struct {
		name   string
		mutate func(*item.Item)
		field  string
	}{
		{"valid", func(*item.Item) {}, ""},
		{"empty name", func(i *item.Item) { i.Name = "" }, "name"},
		{"negative cost", func(i *item.Item) { i.Cost = -0.01 }, "cost"},
		{"negative sale price", func(i *item.Item) { i.SalePrice = &neg }, "salePrice"},
		{"condition too low", func(i *item.Item) { i.Condition = 0 }, "condition"},
		{"condition too high", func(i *item.Item) { i.Condition = 11 }, "condition"},
		{"unknown category", func(i *item.Item) { i.Category = "VINYL" }, "category"},
		{"unknown status", func(i *item.Item) { i.Status = "ARCHIVED" }, "status"},
		{"unknown sale platform", func(i *item.Item) { i.PlatformOfSale = &bad }, "platformOfSale"},
		{"unknown listed platform", func(i *item.Item) { i.ListedPlatforms = []item.Platform{item.PlatformEbay, bad} }, "listedPlatforms"},
		{"condition bounds inclusive", func(i *item.Item) { i.Condition = item.MaxCondition }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := validItem()
			tt.mutate(&it)
			err := it.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, item.ErrInvalidItem)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPlatformOfSaleConsistent(t *testing.T) {
	ebay, kijiji := item.PlatformEbay, item.PlatformKijiji

	it := validItem()
	assert.True(t, it.PlatformOfSaleConsistent())

	it.ListedPlatforms = []item.Platform{item.PlatformEbay, item.PlatformFBMarketplace}
	it.PlatformOfSale = &ebay
	assert.True(t, it.PlatformOfSaleConsistent())

	it.PlatformOfSale = &kijiji
	assert.False(t, it.PlatformOfSaleConsistent())
	assert.NoError(t, it.Validate())
}

func TestCreateItemInputDefaultsComplete(t *testing.T) {
	in := item.CreateItemInput{Name: "Dune"}
	assert.True(t, in.Item().IsComplete)

	incomplete := false
	in.IsComplete = &incomplete
	assert.False(t, in.Item().IsComplete)
}

func TestItemNotFoundError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := error(&item.ItemNotFoundError{ID: "a1", Cause: cause})

	assert.ErrorIs(t, err, item.ErrItemNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "a1")

	assert.EqualError(t, &item.ItemNotFoundError{ID: "a1"}, "item a1 not found")
}

func TestPhotoUploadFailedError(t *testing.T) {
	cause := errors.New("upload refused")
	rollback := errors.New("delete refused")

	rolledBack := error(&item.PhotoUploadFailedError{
		ID: "a1", Step: item.StepUpload, Cause: cause, State: item.StateRolledBack,
	})
	assert.ErrorIs(t, rolledBack, cause)
	assert.NotErrorIs(t, rolledBack, item.ErrInconsistentState)

	inconsistent := error(&item.PhotoUploadFailedError{
		ID: "a1", Step: item.StepSetPicture, Cause: cause, RollbackErr: rollback, State: item.StateInconsistent,
	})
	assert.ErrorIs(t, inconsistent, cause)
	assert.ErrorIs(t, inconsistent, rollback)
	assert.ErrorIs(t, inconsistent, item.ErrInconsistentState)
	assert.Contains(t, inconsistent.Error(), "set_picture")
}

func TestBulkDeleteOutput(t *testing.T) {
	boom := errors.New("unavailable")

	ok := item.BulkDeleteOutput{Results: []item.BulkDeleteResult{{ID: "a"}, {ID: "b"}}}
	assert.Empty(t, ok.Failed())
	assert.NoError(t, ok.Err())

	partial := item.BulkDeleteOutput{Results: []item.BulkDeleteResult{{ID: "a"}, {ID: "b", Err: boom}, {ID: "c"}}}
	failed := partial.Failed()
	assert.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].ID)

	err := partial.Err()
	assert.ErrorIs(t, err, item.ErrBulkDeleteFailed)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1 of 3")
}

func TestCreateStateTransitions(t *testing.T) {
	allowed := map[item.CreateState][]item.CreateState{
		item.StateUncreated:  {item.StateRecordOnly},
		item.StateRecordOnly: {item.StateComplete, item.StateRolledBack, item.StateInconsistent},
	}
	all := []item.CreateState{
		item.StateUncreated, item.StateRecordOnly, item.StateComplete, item.StateRolledBack, item.StateInconsistent,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, item.StateRecordOnly.Stable())
	assert.False(t, item.StateInconsistent.Stable())
	assert.True(t, item.StateComplete.Stable())
	assert.True(t, item.StateRolledBack.Stable())
	assert.Equal(t, "record_only", item.StateRecordOnly.String())
}
