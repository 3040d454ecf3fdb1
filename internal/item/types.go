package item

import (
	"errors"
	"fmt"
	"time"
)

// --- Enumerations ---

type Category string

const (
	CategoryBoardGame Category = "BOARD_GAME"
	CategoryBook      Category = "BOOK"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBoardGame, CategoryBook:
		return true
	}
	return false
}

type Status string

const (
	StatusSold      Status = "SOLD"
	StatusListed    Status = "LISTED"
	StatusNotListed Status = "NOT_LISTED"
)

// Statuses lists every Status in display order.
func Statuses() []Status {
	return []Status{StatusSold, StatusListed, StatusNotListed}
}

func (s Status) Valid() bool {
	switch s {
	case StatusSold, StatusListed, StatusNotListed:
		return true
	}
	return false
}

type Platform string

const (
	PlatformEbay          Platform = "EBAY"
	PlatformFBMarketplace Platform = "FB_MARKETPLACE"
	PlatformKijiji        Platform = "KIJIJI"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformEbay, PlatformFBMarketplace, PlatformKijiji:
		return true
	}
	return false
}

// --- Item Domain Model ---

const (
	MinCondition = 1
	MaxCondition = 10
)

// Item is a piece of resale inventory.
type Item struct {
	ID              string
	Name            string
	Cost            float64
	SalePrice       *float64
	Picture         string
	Category        Category
	Condition       int
	Description     string
	Status          Status
	CreatedAt       time.Time
	IsComplete      bool
	ListedPlatforms []Platform
	PlatformOfSale  *Platform
}

// Validate checks the stored-data rules. Violations wrap ErrInvalidItem.
func (i Item) Validate() error {
	switch {
	case i.Name == "":
		return invalid("name", "must not be empty")
	case i.Cost < 0:
		return invalid("cost", "must not be negative")
	case i.SalePrice != nil && *i.SalePrice < 0:
		return invalid("salePrice", "must not be negative")
	case i.Condition < MinCondition || i.Condition > MaxCondition:
		return invalid("condition", fmt.Sprintf("must be between %d and %d", MinCondition, MaxCondition))
	case !i.Category.Valid():
		return invalid("category", fmt.Sprintf("unknown value %q", i.Category))
	case !i.Status.Valid():
		return invalid("status", fmt.Sprintf("unknown value %q", i.Status))
	case i.PlatformOfSale != nil && !i.PlatformOfSale.Valid():
		return invalid("platformOfSale", fmt.Sprintf("unknown value %q", *i.PlatformOfSale))
	}
	for _, p := range i.ListedPlatforms {
		if !p.Valid() {
			return invalid("listedPlatforms", fmt.Sprintf("unknown value %q", p))
		}
	}
	return nil
}

// PlatformOfSaleConsistent reports whether the sale platform is one the item is listed on.
// It is a data-quality signal only.
func (i Item) PlatformOfSaleConsistent() bool {
	if i.PlatformOfSale == nil {
		return true
	}
	for _, p := range i.ListedPlatforms {
		if p == *i.PlatformOfSale {
			return true
		}
	}
	return false
}

func invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidItem, field, reason)
}

// Photo is the raw primary photo of an item.
type Photo struct {
	Data []byte
	// ContentType is sniffed from Data when empty.
	ContentType string
}

// --- UseCase Inputs ---

// CreateItemInput carries the client-settable fields of a new item.
type CreateItemInput struct {
	Name            string
	Cost            float64
	SalePrice       *float64
	Category        Category
	Condition       int
	Description     string
	Status          Status
	IsComplete      *bool // nil means true
	ListedPlatforms []Platform
	PlatformOfSale  *Platform
}

// Item converts the input into an unsaved Item.
func (in CreateItemInput) Item() Item {
	complete := true
	if in.IsComplete != nil {
		complete = *in.IsComplete
	}
	return Item{
		Name:            in.Name,
		Cost:            in.Cost,
		SalePrice:       in.SalePrice,
		Category:        in.Category,
		Condition:       in.Condition,
		Description:     in.Description,
		Status:          in.Status,
		IsComplete:      complete,
		ListedPlatforms: in.ListedPlatforms,
		PlatformOfSale:  in.PlatformOfSale,
	}
}

type ListItemsInput struct {
	Status Status
	// Name matches items whose name contains it, ignoring case.
	Name   string
	Limit  int
	Offset int
}

// --- UseCase Outputs ---

type ListItemsOutput struct {
	Items  []Item
	Total  int
	Limit  int
	Offset int
}

// Stats are the dashboard counters.
type Stats struct {
	Total     int64
	Sold      int64
	Listed    int64
	NotListed int64
}

type BulkDeleteResult struct {
	ID  string
	Err error
}

// BulkDeleteOutput holds one result per requested id, in request order.
type BulkDeleteOutput struct {
	Results []BulkDeleteResult
}

// Failed returns the results that carry an error.
func (o BulkDeleteOutput) Failed() []BulkDeleteResult {
	var failed []BulkDeleteResult
	for _, r := range o.Results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err is nil when every deletion succeeded. Otherwise it matches ErrBulkDeleteFailed and
// joins the per-item errors.
func (o BulkDeleteOutput) Err() error {
	failed := o.Failed()
	if len(failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failed)+1)
	errs = append(errs, fmt.Errorf("%w: %d of %d", ErrBulkDeleteFailed, len(failed), len(o.Results)))
	for _, r := range failed {
		errs = append(errs, r.Err)
	}
	return errors.Join(errs...)
}
