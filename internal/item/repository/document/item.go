package document

import (
	"context"
	"errors"
	"fmt"

	"resale-inventory/internal/item"
	repo "resale-inventory/internal/item/repository"
	"resale-inventory/pkg/docstore"
)

// CreateItem inserts the record with a server-assigned createdAt and an empty picture.
func (r *implRepository) CreateItem(ctx context.Context, opt repo.CreateItemOptions) (string, error) {
	fields := toFields(opt.Item)
	fields[fieldPicture] = ""
	fields[fieldCreatedAt] = docstore.ServerTimestamp

	id, err := r.store.Create(ctx, r.collection, fields)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CreateItem"), err)
		return "", fmt.Errorf("%w: %w", repo.ErrFailedToInsert, err)
	}
	return id, nil
}

// GetItem returns the item with its id attached. A missing record matches docstore.ErrNotFound.
func (r *implRepository) GetItem(ctx context.Context, id string) (item.Item, error) {
	doc, err := r.store.GetByID(ctx, r.collection, id)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			r.l.Errorf(ctx, "%s: %v", r.dsn("GetItem"), err)
		}
		return item.Item{}, fmt.Errorf("%w: %w", repo.ErrFailedToGet, err)
	}
	return fromDocument(doc), nil
}

// ListItems returns a page of items, newest first.
func (r *implRepository) ListItems(ctx context.Context, opt repo.ListItemsOptions) ([]item.Item, error) {
	docs, err := r.store.List(ctx, r.collection, docstore.ListOptions{
		Filters: statusFilter(opt.Status),
		OrderBy: fieldCreatedAt,
		Desc:    true,
		Limit:   opt.Limit,
		Offset:  opt.Offset,
	})
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ListItems"), err)
		return nil, fmt.Errorf("%w: %w", repo.ErrFailedToList, err)
	}

	items := make([]item.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, fromDocument(doc))
	}
	return items, nil
}

// CountItems runs a server-side count.
func (r *implRepository) CountItems(ctx context.Context, opt repo.CountItemsOptions) (int64, error) {
	n, err := r.store.Count(ctx, r.collection, statusFilter(opt.Status)...)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("CountItems"), err)
		return 0, fmt.Errorf("%w: %w", repo.ErrFailedToCount, err)
	}
	return n, nil
}

// SetPicture records the photo URL of an item.
func (r *implRepository) SetPicture(ctx context.Context, id, url string) error {
	if err := r.store.Update(ctx, r.collection, id, docstore.Fields{fieldPicture: url}); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("SetPicture"), err)
		return fmt.Errorf("%w: %w", repo.ErrFailedToUpdate, err)
	}
	return nil
}

// ReplaceItem writes every mutable field. id and createdAt are never written.
func (r *implRepository) ReplaceItem(ctx context.Context, opt repo.ReplaceItemOptions) error {
	fields := toFields(opt.Item)
	fields[fieldPicture] = opt.Item.Picture

	if err := r.store.Update(ctx, r.collection, opt.ID, fields); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("ReplaceItem"), err)
		return fmt.Errorf("%w: %w", repo.ErrFailedToUpdate, err)
	}
	return nil
}

// DeleteItem removes the record. Deleting a missing id succeeds.
func (r *implRepository) DeleteItem(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.collection, id); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteItem"), err)
		return fmt.Errorf("%w: %w", repo.ErrFailedToDelete, err)
	}
	return nil
}

func statusFilter(s item.Status) []docstore.Filter {
	if s == "" {
		return nil
	}
	return []docstore.Filter{docstore.Eq(fieldStatus, string(s))}
}
