package repository

import (
	"context"

	"resale-inventory/internal/item"
)

// Repository is the composed interface for the item domain data store.
type Repository interface {
	ItemRepository
}

// ItemRepository defines all data access methods for the Item entity.
// Errors wrap the sentinels in this package together with the store's own error.
type ItemRepository interface {
	CreateItem(ctx context.Context, opt CreateItemOptions) (string, error)
	GetItem(ctx context.Context, id string) (item.Item, error)
	ListItems(ctx context.Context, opt ListItemsOptions) ([]item.Item, error)
	CountItems(ctx context.Context, opt CountItemsOptions) (int64, error)
	SetPicture(ctx context.Context, id, url string) error
	ReplaceItem(ctx context.Context, opt ReplaceItemOptions) error
	DeleteItem(ctx context.Context, id string) error
}
