package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"resale-inventory/internal/item"
	repo "resale-inventory/internal/item/repository"
)

// CountByStatus returns the live number of items with status.
func (uc *implUseCase) CountByStatus(ctx context.Context, status item.Status) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: status unknown value %q", item.ErrInvalidItem, status)
	}
	n, err := uc.repo.CountItems(ctx, repo.CountItemsOptions{Status: status})
	if err != nil {
		uc.l.Errorf(ctx, "uc.CountByStatus CountItems: %v", err)
		return 0, err
	}
	return n, nil
}

// CountAll returns the live number of items.
func (uc *implUseCase) CountAll(ctx context.Context) (int64, error) {
	n, err := uc.repo.CountItems(ctx, repo.CountItemsOptions{})
	if err != nil {
		uc.l.Errorf(ctx, "uc.CountAll CountItems: %v", err)
		return 0, err
	}
	return n, nil
}

// Stats fetches the dashboard counters concurrently.
func (uc *implUseCase) Stats(ctx context.Context) (item.Stats, error) {
	var s item.Stats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.Total, err = uc.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.Sold, err = uc.CountByStatus(gctx, item.StatusSold)
		return err
	})
	g.Go(func() (err error) {
		s.Listed, err = uc.CountByStatus(gctx, item.StatusListed)
		return err
	})
	g.Go(func() (err error) {
		s.NotListed, err = uc.CountByStatus(gctx, item.StatusNotListed)
		return err
	})

	if err := g.Wait(); err != nil {
		return item.Stats{}, err
	}
	return s, nil
}
