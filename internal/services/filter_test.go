package services_test

import (
	"math"
	"testing"

	"trailerstore/internal/models"
	"trailerstore/internal/repositories"
	"trailerstore/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBuildListQuery_Defaults(t *testing.T) {
	q := services.BuildListQuery(services.ListParams{})

	assert.Equal(t, repositories.TrailerFilter{}, q.Filter)
	assert.Equal(t, repositories.Sort{Field: repositories.SortByCreatedAt, Desc: true}, q.Sort)
	assert.Equal(t, repositories.Page{Number: 1, Limit: 10}, q.Page)
	assert.Equal(t, 0, q.Page.Offset())
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	q := services.BuildListQuery(services.ListParams{
		Page:       "3",
		Limit:      "5",
		Category:   "Вантажні причепи",
		Brand:      " kremen ",
		MinPrice:   "1000",
		MaxPrice:   "50000.5",
		InStock:    strPtr("true"),
		IsFeatured: strPtr("no"),
		Search:     "  човен ",
		SortBy:     "price",
		SortOrder:  "asc",
	})

	f := q.Filter
	assert.Equal(t, models.CategoryCargo, f.Category)
	assert.Equal(t, "kremen", f.Brand)
	assert.Equal(t, "човен", f.Search)
	require.NotNil(t, f.InStock)
	assert.True(t, *f.InStock)
	require.NotNil(t, f.IsFeatured)
	assert.False(t, *f.IsFeatured)
	require.NotNil(t, f.Price.Min)
	require.NotNil(t, f.Price.Max)
	assert.Equal(t, 1000.0, *f.Price.Min)
	assert.Equal(t, 50000.5, *f.Price.Max)

	assert.Equal(t, repositories.Sort{Field: repositories.SortByPrice, Desc: false}, q.Sort)
	assert.Equal(t, 10, q.Page.Offset())
}

func TestBuildListQuery_Sanitizes(t *testing.T) {
	q := services.BuildListQuery(services.ListParams{
		Page:      "-2",
		Limit:     "100000",
		MinPrice:  "abc",
		MaxPrice:  "NaN",
		SortBy:    "password",
		SortOrder: "desc",
	})

	assert.Equal(t, 1, q.Page.Number)
	assert.Equal(t, services.MaxLimit, q.Page.Limit)
	assert.Nil(t, q.Filter.Price.Min)
	assert.Nil(t, q.Filter.Price.Max)
	assert.Equal(t, repositories.SortByCreatedAt, q.Sort.Field)
	assert.True(t, q.Sort.Desc)
}

func TestBuildListQuery_EmptyBoolStillFilters(t *testing.T) {
	q := services.BuildListQuery(services.ListParams{InStock: strPtr("")})
	require.NotNil(t, q.Filter.InStock)
	assert.False(t, *q.Filter.InStock)
	assert.Nil(t, q.Filter.IsFeatured)
}

func TestNewPagination(t *testing.T) {
	for _, total := range []int64{0, 1, 9, 10, 11, 99, 100, 101} {
		for _, limit := range []int{1, 3, 10, 25} {
			for _, page := range []int{1, 2, 5} {
				p := services.NewPagination(repositories.Page{Number: page, Limit: limit}, total)
				assert.Equal(t, int(math.Ceil(float64(total)/float64(limit))), p.TotalPages)
				assert.Equal(t, total, p.TotalItems)
				assert.Equal(t, limit, p.ItemsPerPage)
				assert.Equal(t, page, p.CurrentPage)
				assert.Equal(t, page < p.TotalPages, p.HasNextPage)
				assert.Equal(t, page > 1, p.HasPrevPage)
			}
		}
	}
}
