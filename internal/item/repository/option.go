package repository

import "resale-inventory/internal/item"

// CreateItemOptions holds the record written in the first phase of creation.
// The store assigns the id and createdAt; picture starts empty.
type CreateItemOptions struct {
	Item item.Item
}

// ListItemsOptions holds filter and pagination parameters for listing Items.
// Results are ordered newest first.
type ListItemsOptions struct {
	Status item.Status
	Limit  int
	Offset int
}

// CountItemsOptions filters a count. An empty Status counts everything.
type CountItemsOptions struct {
	Status item.Status
}

// ReplaceItemOptions overwrites every mutable field of an existing Item.
type ReplaceItemOptions struct {
	ID   string
	Item item.Item
}
