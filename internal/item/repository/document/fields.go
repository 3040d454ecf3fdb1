package document

import (
	"resale-inventory/internal/item"
	"resale-inventory/pkg/docstore"
)

// Document keys. The id is never part of the payload.
const (
	fieldName            = "name"
	fieldCost            = "cost"
	fieldSalePrice       = "salePrice"
	fieldPicture         = "picture"
	fieldCategory        = "category"
	fieldCondition       = "condition"
	fieldDescription     = "description"
	fieldStatus          = "status"
	fieldCreatedAt       = "createdAt"
	fieldIsComplete      = "isComplete"
	fieldListedPlatforms = "listedPlatforms"
	fieldPlatformOfSale  = "platformOfSale"
)

// toFields maps the client-owned fields. picture and createdAt are left to the caller.
// Enum values are stored as plain strings so every backend encodes them alike.
func toFields(it item.Item) docstore.Fields {
	platforms := make([]string, 0, len(it.ListedPlatforms))
	for _, p := range it.ListedPlatforms {
		platforms = append(platforms, string(p))
	}

	f := docstore.Fields{
		fieldName:            it.Name,
		fieldCost:            it.Cost,
		fieldSalePrice:       nil,
		fieldCategory:        string(it.Category),
		fieldCondition:       it.Condition,
		fieldDescription:     it.Description,
		fieldStatus:          string(it.Status),
		fieldIsComplete:      it.IsComplete,
		fieldListedPlatforms: platforms,
		fieldPlatformOfSale:  nil,
	}
	if it.SalePrice != nil {
		f[fieldSalePrice] = *it.SalePrice
	}
	if it.PlatformOfSale != nil {
		f[fieldPlatformOfSale] = string(*it.PlatformOfSale)
	}
	return f
}

func fromDocument(doc docstore.Document) item.Item {
	f := doc.Fields
	it := item.Item{
		ID:          doc.ID,
		Name:        f.String(fieldName),
		Picture:     f.String(fieldPicture),
		Category:    item.Category(f.String(fieldCategory)),
		Condition:   f.Int(fieldCondition),
		Description: f.String(fieldDescription),
		Status:      item.Status(f.String(fieldStatus)),
		CreatedAt:   f.Time(fieldCreatedAt),
		IsComplete:  f.Bool(fieldIsComplete, true),
	}
	it.Cost, _ = f.Float(fieldCost)
	if v, ok := f.Float(fieldSalePrice); ok {
		it.SalePrice = &v
	}
	for _, p := range f.Strings(fieldListedPlatforms) {
		it.ListedPlatforms = append(it.ListedPlatforms, item.Platform(p))
	}
	if p := f.String(fieldPlatformOfSale); p != "" {
		pos := item.Platform(p)
		it.PlatformOfSale = &pos
	}
	return it
}
