package item

import "context"

//go:generate mockery --name UseCase
type UseCase interface {
	// Item lifecycle
	CreateWithPhoto(ctx context.Context, input CreateItemInput, photo Photo) (string, error)
	Detail(ctx context.Context, id string) (Item, error)
	UpdateEntire(ctx context.Context, id string, it Item) error
	DeleteWithAssets(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) BulkDeleteOutput

	// Queries
	List(ctx context.Context, input ListItemsInput) (ListItemsOutput, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (Stats, error)
}
