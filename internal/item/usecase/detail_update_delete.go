package usecase

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"resale-inventory/internal/item"
	repo "resale-inventory/internal/item/repository"
	"resale-inventory/pkg/docstore"
)

// Detail retrieves a single Item by ID. Every failure is an *item.ItemNotFoundError that
// keeps the underlying cause.
func (uc *implUseCase) Detail(ctx context.Context, id string) (item.Item, error) {
	it, err := uc.repo.GetItem(ctx, id)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			uc.l.Warnf(ctx, "uc.Detail GetItem %s: %v", id, err)
		}
		return item.Item{}, &item.ItemNotFoundError{ID: id, Cause: err}
	}
	return it, nil
}

// UpdateEntire overwrites all mutable fields of the item. Last write wins.
func (uc *implUseCase) UpdateEntire(ctx context.Context, id string, it item.Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if !it.PlatformOfSaleConsistent() {
		uc.l.Warnf(ctx, "uc.UpdateEntire %s: platformOfSale %s not among listed platforms", id, *it.PlatformOfSale)
	}

	err := uc.repo.ReplaceItem(ctx, repo.ReplaceItemOptions{ID: id, Item: it})
	if err == nil {
		return nil
	}

	uc.l.Errorf(ctx, "uc.UpdateEntire ReplaceItem: %v", err)
	writeErr := &item.StoreWriteError{Op: "update", ID: id, Err: err}
	if errors.Is(err, docstore.ErrNotFound) {
		return &item.ItemNotFoundError{ID: id, Cause: writeErr}
	}
	return writeErr
}

// DeleteWithAssets deletes the record, then every blob under the item's asset folder.
// A failed record delete stops before storage is touched. Blob deletions are all attempted.
func (uc *implUseCase) DeleteWithAssets(ctx context.Context, id string) error {
	if err := uc.repo.DeleteItem(ctx, id); err != nil {
		uc.l.Errorf(ctx, "uc.DeleteWithAssets DeleteItem: %v", err)
		return &item.StoreWriteError{Op: "delete", ID: id, Err: err}
	}

	handles, err := uc.blobs.List(ctx, uc.assetDir(id))
	if err != nil {
		uc.l.Errorf(ctx, "uc.DeleteWithAssets List: %v", err)
		return &item.AssetDeleteError{ID: id, Err: err}
	}

	errs := make([]error, len(handles))
	var g errgroup.Group
	g.SetLimit(uc.opt.BulkConcurrency)
	for i, h := range handles {
		g.Go(func() error {
			errs[i] = uc.blobs.Delete(ctx, h)
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		uc.l.Errorf(ctx, "uc.DeleteWithAssets %s: %v", id, err)
		return &item.AssetDeleteError{ID: id, Err: err}
	}
	return nil
}
