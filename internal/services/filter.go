package services

import (
	"math"
	"strconv"
	"strings"

	"trailerstore/internal/models"
	"trailerstore/internal/repositories"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams holds the raw list query parameters. Empty strings mean "not given";
// InStock and IsFeatured are pointers because an empty value still counts as present.
type ListParams struct {
	Page       string
	Limit      string
	Category   string
	Brand      string
	MinPrice   string
	MaxPrice   string
	InStock    *string
	IsFeatured *string
	Search     string
	SortBy     string
	SortOrder  string
}

// ListQuery is the typed form of ListParams.
type ListQuery struct {
	Filter repositories.TrailerFilter
	Sort   repositories.Sort
	Page   repositories.Page
}

// BuildListQuery maps list parameters onto a store predicate, ordering and page window.
func BuildListQuery(p ListParams) ListQuery {
	q := ListQuery{
		Sort: repositories.Newest,
		Page: repositories.Page{
			Number: ParsePositiveInt(p.Page, DefaultPage, 0),
			Limit:  ParsePositiveInt(p.Limit, DefaultLimit, MaxLimit),
		},
	}

	f := &q.Filter
	f.Category = models.Category(strings.TrimSpace(p.Category))
	f.Brand = strings.TrimSpace(p.Brand)
	f.Search = strings.TrimSpace(p.Search)
	if p.InStock != nil {
		v := *p.InStock == "true"
		f.InStock = &v
	}
	if p.IsFeatured != nil {
		v := *p.IsFeatured == "true"
		f.IsFeatured = &v
	}
	f.Price.Min = parsePrice(p.MinPrice)
	f.Price.Max = parsePrice(p.MaxPrice)

	if field := repositories.SortField(p.SortBy); p.SortBy != "" {
		if _, ok := field.Column(); ok {
			q.Sort.Field = field
		}
	}
	if p.SortOrder != "" {
		q.Sort.Desc = p.SortOrder == "desc"
	}
	return q
}

// ParsePositiveInt parses s as an integer >= 1, falling back to def.
// A positive max caps the result.
func ParsePositiveInt(s string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination computes pagination metadata for page over total items.
func NewPagination(page repositories.Page, total int64) Pagination {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	return Pagination{
		CurrentPage:  page.Number,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: page.Limit,
		HasNextPage:  page.Number < totalPages,
		HasPrevPage:  page.Number > 1,
	}
}
