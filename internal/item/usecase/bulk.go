package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"resale-inventory/internal/item"
)

// BulkDelete runs DeleteWithAssets for every id concurrently and waits for all of them.
// Completed deletions are kept when others fail.
func (uc *implUseCase) BulkDelete(ctx context.Context, ids []string) item.BulkDeleteOutput {
	results := make([]item.BulkDeleteResult, len(ids))

	var g errgroup.Group
	g.SetLimit(uc.opt.BulkConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = item.BulkDeleteResult{ID: id, Err: uc.DeleteWithAssets(ctx, id)}
			return nil
		})
	}
	_ = g.Wait()

	out := item.BulkDeleteOutput{Results: results}
	if failed := out.Failed(); len(failed) > 0 {
		uc.l.Warnf(ctx, "uc.BulkDelete: %d of %d failed", len(failed), len(ids))
	}
	return out
}
