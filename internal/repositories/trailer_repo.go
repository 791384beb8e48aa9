package repositories

import (
	"context"

	"trailerstore/internal/models"
)

// PriceRange is a closed price interval; nil bounds are open.
type PriceRange struct {
	Min *float64
	Max *float64
}

// Contains reports whether price lies within the range.
func (r PriceRange) Contains(price float64) bool {
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// TrailerFilter is the predicate used to select trailers. Zero-valued fields are ignored
// and all set constraints are combined with AND.
type TrailerFilter struct {
	Category   models.Category
	Brand      string // case-insensitive substring
	InStock    *bool
	IsFeatured *bool
	Price      PriceRange
	// Search matches name, brand, model or category by case-insensitive substring,
	// or any keyword containing it.
	Search string
}

// SortField is a sortable trailer attribute.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByPrice     SortField = "price"
	SortByName      SortField = "name"
	SortByBrand     SortField = "brand"
	SortByModel     SortField = "model"
	SortByQuantity  SortField = "quantity"
)

var sortColumns = map[SortField]string{
	SortByCreatedAt: "created_at",
	SortByUpdatedAt: "updated_at",
	SortByPrice:     "price",
	SortByName:      "name",
	SortByBrand:     "brand",
	SortByModel:     "model",
	SortByQuantity:  "quantity",
}

// Column returns the storage column for the field and whether the field is sortable.
func (f SortField) Column() (string, bool) {
	col, ok := sortColumns[f]
	return col, ok
}

// Sort orders query results.
type Sort struct {
	Field SortField
	Desc  bool
}

// Newest is the default ordering.
var Newest = Sort{Field: SortByCreatedAt, Desc: true}

// Page is a pagination window. A zero Limit means no limit.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of records to skip.
func (p Page) Offset() int {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// BrandCount is the number of in-stock trailers of one brand.
type BrandCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TrailerRepository defines the interface for trailer data access.
// Missing records are reported as apperror.KindNotFound and unique-key
// violations as apperror.KindDuplicate.
type TrailerRepository interface {
	List(ctx context.Context, filter TrailerFilter, sort Sort, page Page) ([]models.Trailer, error)
	Count(ctx context.Context, filter TrailerFilter) (int64, error)
	GetByID(ctx context.Context, id string) (*models.Trailer, error)
	GetBySlug(ctx context.Context, slug string) (*models.Trailer, error)
	// SlugExists ignores the record with excludeID when it is not empty.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	BrandCounts(ctx context.Context) ([]BrandCount, error)
	Create(ctx context.Context, trailer *models.Trailer) error
	Update(ctx context.Context, trailer *models.Trailer) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
