package http

import (
	"fmt"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/response"
)

// --- Request DTOs ---

// itemReq is the client-settable part of an item.
type itemReq struct {
	Name            string   `json:"name"`
	Cost            float64  `json:"cost"`
	SalePrice       *float64 `json:"salePrice"`
	Category        string   `json:"category"`
	Condition       int      `json:"condition"`
	Description     string   `json:"description"`
	Status          string   `json:"status"`
	IsComplete      *bool    `json:"isComplete"`
	ListedPlatforms []string `json:"listedPlatforms"`
	PlatformOfSale  *string  `json:"platformOfSale"`
}

func (r itemReq) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name must not be empty", item.ErrInvalidItem)
	}
	return nil
}

func (r itemReq) platforms() ([]item.Platform, *item.Platform) {
	var listed []item.Platform
	for _, p := range r.ListedPlatforms {
		listed = append(listed, item.Platform(p))
	}
	var sale *item.Platform
	if r.PlatformOfSale != nil {
		p := item.Platform(*r.PlatformOfSale)
		sale = &p
	}
	return listed, sale
}

func (r itemReq) toCreateInput() item.CreateItemInput {
	listed, sale := r.platforms()
	return item.CreateItemInput{
		Name:            r.Name,
		Cost:            r.Cost,
		SalePrice:       r.SalePrice,
		Category:        item.Category(r.Category),
		Condition:       r.Condition,
		Description:     r.Description,
		Status:          item.Status(r.Status),
		IsComplete:      r.IsComplete,
		ListedPlatforms: listed,
		PlatformOfSale:  sale,
	}
}

// ---

// updateReq is a full item. picture keeps the stored photo when omitted.
type updateReq struct {
	ID string `json:"-"`
	itemReq
	Picture *string `json:"picture"`
}

func (r updateReq) toItem(current item.Item) item.Item {
	it := r.toCreateInput().Item()
	it.ID = r.ID
	it.CreatedAt = current.CreatedAt
	it.Picture = current.Picture
	if r.Picture != nil {
		it.Picture = *r.Picture
	}
	return it
}

// ---

type listReq struct {
	Status string `form:"status"`
	Name   string `form:"name"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (r listReq) toInput() item.ListItemsInput {
	limit := r.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = DefaultListLimit
	}
	return item.ListItemsInput{
		Status: item.Status(r.Status),
		Name:   r.Name,
		Limit:  limit,
		Offset: max(r.Offset, 0),
	}
}

// ---

type bulkDeleteReq struct {
	IDs []string `json:"ids" binding:"required,min=1,max=500,dive,required"`
}

// --- Response DTOs ---

type itemResp struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Cost            float64           `json:"cost"`
	SalePrice       *float64          `json:"salePrice"`
	Picture         string            `json:"picture"`
	Category        string            `json:"category"`
	Condition       int               `json:"condition"`
	Description     string            `json:"description"`
	Status          string            `json:"status"`
	CreatedAt       response.DateTime `json:"createdAt" swaggertype:"string" format:"date-time"`
	IsComplete      bool              `json:"isComplete"`
	ListedPlatforms []string          `json:"listedPlatforms"`
	PlatformOfSale  *string           `json:"platformOfSale"`
}

func newItemResp(it item.Item) itemResp {
	listed := make([]string, len(it.ListedPlatforms))
	for i, p := range it.ListedPlatforms {
		listed[i] = string(p)
	}
	var sale *string
	if it.PlatformOfSale != nil {
		s := string(*it.PlatformOfSale)
		sale = &s
	}
	return itemResp{
		ID:              it.ID,
		Name:            it.Name,
		Cost:            it.Cost,
		SalePrice:       it.SalePrice,
		Picture:         it.Picture,
		Category:        string(it.Category),
		Condition:       it.Condition,
		Description:     it.Description,
		Status:          string(it.Status),
		CreatedAt:       response.DateTime(it.CreatedAt),
		IsComplete:      it.IsComplete,
		ListedPlatforms: listed,
		PlatformOfSale:  sale,
	}
}

type createResp struct {
	ID string `json:"id"`
}

type detailResp struct {
	Item itemResp `json:"item"`
}

func (h *handler) newDetailResp(it item.Item) detailResp {
	return detailResp{Item: newItemResp(it)}
}

type listResp struct {
	Items  []itemResp `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func (h *handler) newListResp(out item.ListItemsOutput) listResp {
	items := make([]itemResp, len(out.Items))
	for i, it := range out.Items {
		items[i] = newItemResp(it)
	}
	return listResp{
		Items:  items,
		Total:  out.Total,
		Limit:  out.Limit,
		Offset: out.Offset,
	}
}

type bulkDeleteResultResp struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

type bulkDeleteResp struct {
	Results []bulkDeleteResultResp `json:"results"`
	Failed  int                    `json:"failed"`
}

func (h *handler) newBulkDeleteResp(out item.BulkDeleteOutput) bulkDeleteResp {
	results := make([]bulkDeleteResultResp, len(out.Results))
	failed := 0
	for i, r := range out.Results {
		results[i] = bulkDeleteResultResp{ID: r.ID}
		if r.Err != nil {
			results[i].Error = h.mapError(r.Err).Error()
			failed++
		}
	}
	return bulkDeleteResp{Results: results, Failed: failed}
}

type statsResp struct {
	Total     int64 `json:"total"`
	Sold      int64 `json:"sold"`
	Listed    int64 `json:"listed"`
	NotListed int64 `json:"notListed"`
}

func (h *handler) newStatsResp(s item.Stats) statsResp {
	return statsResp{Total: s.Total, Sold: s.Sold, Listed: s.Listed, NotListed: s.NotListed}
}

type countResp struct {
	Status string `json:"status,omitempty"`
	Count  int64  `json:"count"`
}
