package usecase

import (
	"context"
	"fmt"

	"resale-inventory/internal/item"
	repo "resale-inventory/internal/item/repository"
)

// List returns a page of items, newest first. Name matching runs after the store query,
// since document stores cannot filter by substring.
func (uc *implUseCase) List(ctx context.Context, input item.ListItemsInput) (item.ListItemsOutput, error) {
	if input.Status != "" && !input.Status.Valid() {
		return item.ListItemsOutput{}, fmt.Errorf("%w: status unknown value %q", item.ErrInvalidItem, input.Status)
	}

	out := item.ListItemsOutput{Limit: input.Limit, Offset: input.Offset}

	if input.Name == "" {
		items, err := uc.repo.ListItems(ctx, repo.ListItemsOptions{
			Status: input.Status,
			Limit:  input.Limit,
			Offset: input.Offset,
		})
		if err != nil {
			uc.l.Errorf(ctx, "uc.List ListItems: %v", err)
			return item.ListItemsOutput{}, err
		}
		total, err := uc.repo.CountItems(ctx, repo.CountItemsOptions{Status: input.Status})
		if err != nil {
			uc.l.Errorf(ctx, "uc.List CountItems: %v", err)
			return item.ListItemsOutput{}, err
		}
		out.Items, out.Total = items, int(total)
		return out, nil
	}

	all, err := uc.repo.ListItems(ctx, repo.ListItemsOptions{Status: input.Status})
	if err != nil {
		uc.l.Errorf(ctx, "uc.List ListItems: %v", err)
		return item.ListItemsOutput{}, err
	}

	matched := make([]item.Item, 0, len(all))
	for _, it := range all {
		if containsFold(it.Name, input.Name) {
			matched = append(matched, it)
		}
	}
	out.Total = len(matched)
	out.Items = page(matched, input.Limit, input.Offset)
	return out, nil
}

func page(items []item.Item, limit, offset int) []item.Item {
	offset = max(offset, 0)
	if offset >= len(items) {
		return []item.Item{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
