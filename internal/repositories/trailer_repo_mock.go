package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"trailerstore/internal/apperror"
	"trailerstore/internal/models"

	"github.com/google/uuid"
)

// MockTrailerRepository is an in-memory implementation of TrailerRepository.
type MockTrailerRepository struct {
	trailers map[string]models.Trailer
	seq      map[string]int // insertion order, breaks timestamp ties
	next     int
	now      func() time.Time
	mu       sync.RWMutex
}

// NewMockTrailerRepository creates a new instance of MockTrailerRepository.
func NewMockTrailerRepository() *MockTrailerRepository {
	return &MockTrailerRepository{
		trailers: make(map[string]models.Trailer),
		seq:      make(map[string]int),
		now:      time.Now,
	}
}

// List returns the trailers matching filter, ordered and paginated.
func (r *MockTrailerRepository) List(_ context.Context, filter TrailerFilter, order Sort, page Page) ([]models.Trailer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareTrailers(matched[i], matched[j], order.Field)
		if c == 0 {
			c = r.seq[matched[i].ID] - r.seq[matched[j].ID]
		}
		if order.Desc {
			return c > 0
		}
		return c < 0
	})

	if page.Limit > 0 {
		start := page.Offset()
		if start >= len(matched) {
			return []models.Trailer{}, nil
		}
		end := start + page.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, nil
}

// Count returns the number of trailers matching filter.
func (r *MockTrailerRepository) Count(_ context.Context, filter TrailerFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

// GetByID returns a trailer by its ID.
func (r *MockTrailerRepository) GetByID(_ context.Context, id string) (*models.Trailer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trailer, ok := r.trailers[id]
	if !ok {
		return nil, apperror.NotFound("Trailer")
	}
	return &trailer, nil
}

// GetBySlug returns a trailer by its slug.
func (r *MockTrailerRepository) GetBySlug(_ context.Context, slug string) (*models.Trailer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.trailers {
		if t.Slug == slug {
			trailer := t
			return &trailer, nil
		}
	}
	return nil, apperror.NotFound("Trailer")
}

// SlugExists reports whether another trailer already uses slug.
func (r *MockTrailerRepository) SlugExists(_ context.Context, slug, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.slugTaken(slug, excludeID), nil
}

// BrandCounts returns every distinct brand with its in-stock count, sorted by brand.
func (r *MockTrailerRepository) BrandCounts(_ context.Context) ([]BrandCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for _, t := range r.trailers {
		if _, ok := counts[t.Brand]; !ok {
			counts[t.Brand] = 0
		}
		if t.InStock {
			counts[t.Brand]++
		}
	}

	result := make([]BrandCount, 0, len(counts))
	for name, n := range counts {
		result = append(result, BrandCount{Name: name, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// Create adds a new trailer.
func (r *MockTrailerRepository) Create(_ context.Context, trailer *models.Trailer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if trailer.ID == "" {
		trailer.ID = uuid.New().String()
	}
	if _, ok := r.trailers[trailer.ID]; ok {
		return apperror.Duplicate("id", trailer.ID)
	}
	if r.slugTaken(trailer.Slug, "") {
		return apperror.Duplicate("slug", trailer.Slug)
	}

	now := r.now()
	trailer.CreatedAt = now
	trailer.UpdatedAt = now
	r.trailers[trailer.ID] = *trailer
	r.next++
	r.seq[trailer.ID] = r.next
	return nil
}

// Update replaces an existing trailer.
func (r *MockTrailerRepository) Update(_ context.Context, trailer *models.Trailer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.trailers[trailer.ID]
	if !ok {
		return apperror.NotFound("Trailer")
	}
	if r.slugTaken(trailer.Slug, trailer.ID) {
		return apperror.Duplicate("slug", trailer.Slug)
	}

	trailer.CreatedAt = existing.CreatedAt
	trailer.UpdatedAt = r.now()
	r.trailers[trailer.ID] = *trailer
	return nil
}

// Delete removes a trailer by its ID.
func (r *MockTrailerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trailers[id]; !ok {
		return apperror.NotFound("Trailer")
	}
	delete(r.trailers, id)
	delete(r.seq, id)
	return nil
}

// DeleteAll removes every trailer.
func (r *MockTrailerRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.trailers))
	r.trailers = make(map[string]models.Trailer)
	r.seq = make(map[string]int)
	return n, nil
}

// slugTaken must be called with the lock held.
func (r *MockTrailerRepository) slugTaken(slug, excludeID string) bool {
	for id, t := range r.trailers {
		if t.Slug == slug && id != excludeID {
			return true
		}
	}
	return false
}

// match must be called with the lock held.
func (r *MockTrailerRepository) match(filter TrailerFilter) []models.Trailer {
	matched := make([]models.Trailer, 0, len(r.trailers))
	for _, t := range r.trailers {
		if Matches(t, filter) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Matches evaluates filter against a single trailer.
func Matches(t models.Trailer, filter TrailerFilter) bool {
	if filter.Category != "" && t.Category != filter.Category {
		return false
	}
	if filter.Brand != "" && !containsFold(t.Brand, filter.Brand) {
		return false
	}
	if filter.InStock != nil && t.InStock != *filter.InStock {
		return false
	}
	if filter.IsFeatured != nil && t.IsFeatured != *filter.IsFeatured {
		return false
	}
	if !filter.Price.Contains(t.Price) {
		return false
	}
	if filter.Search != "" && !matchesSearch(t, filter.Search) {
		return false
	}
	return true
}

func matchesSearch(t models.Trailer, term string) bool {
	for _, field := range []string{t.Name, t.Brand, t.Model, string(t.Category)} {
		if containsFold(field, term) {
			return true
		}
	}
	for _, kw := range t.Keywords {
		if containsFold(kw, term) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func compareTrailers(a, b models.Trailer, field SortField) int {
	switch field {
	case SortByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortByPrice:
		return compareFloat(a.Price, b.Price)
	case SortByName:
		return strings.Compare(a.Name, b.Name)
	case SortByBrand:
		return strings.Compare(a.Brand, b.Brand)
	case SortByModel:
		return strings.Compare(a.Model, b.Model)
	case SortByQuantity:
		return a.Quantity - b.Quantity
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
