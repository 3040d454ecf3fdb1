package usecase

import (
	"context"
	"strings"

	"resale-inventory/internal/item"
)

// assetDir is the blob prefix owning every asset of id, with a trailing slash so
// "items/1/" never matches "items/10/".
func (uc *implUseCase) assetDir(id string) string {
	return uc.opt.AssetPrefix + "/" + id + "/"
}

// photoPath names the primary photo after the item. Slashes would add path levels, so
// they are replaced.
func (uc *implUseCase) photoPath(id, name string) string {
	return uc.assetDir(id) + strings.ReplaceAll(name, "/", "_")
}

// transition logs a create-state change and returns next.
func (uc *implUseCase) transition(ctx context.Context, id string, from, next item.CreateState) item.CreateState {
	if !from.CanTransition(next) {
		uc.l.DPanicf(ctx, "uc.CreateWithPhoto %s: invalid transition %s -> %s", id, from, next)
	}
	uc.l.Debugf(ctx, "uc.CreateWithPhoto %s: %s -> %s", id, from, next)
	return next
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
