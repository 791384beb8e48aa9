package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"trailerstore/internal/apperror"
	"trailerstore/internal/models"
	"trailerstore/internal/repositories"
	"trailerstore/internal/slug"
	"trailerstore/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Routing keys of catalog events.
const (
	EventTrailerCreated      = "trailer.created"
	EventTrailerUpdated      = "trailer.updated"
	EventTrailerDeleted      = "trailer.deleted"
	EventTrailerStockUpdated = "trailer.stock_updated"
)

// Cache keys of the catalog aggregates.
const (
	CacheKeyCategories = "catalog:categories"
	CacheKeyBrands     = "catalog:brands"
)

// EventPublisher sends catalog events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// AggregateCache stores derived catalog views between mutations.
type AggregateCache interface {
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// TrailerEvent is the body of a catalog event.
type TrailerEvent struct {
	Type       string          `json:"type"`
	TrailerID  string          `json:"trailerId"`
	Slug       string          `json:"slug"`
	OccurredAt time.Time       `json:"occurredAt"`
	Trailer    *models.Trailer `json:"trailer,omitempty"`
}

// CategoryCount is the number of in-stock trailers in a category.
type CategoryCount struct {
	Name  models.Category `json:"name"`
	Count int64           `json:"count"`
}

// TrailerService handles business logic related to trailers.
type TrailerService struct {
	repo     repositories.TrailerRepository
	events   EventPublisher
	cache    AggregateCache
	validate *validator.Validate
	log      *logger.Logger
	// generation is bumped on every mutation; aggregates computed under an older
	// generation are not written back to the cache.
	generation atomic.Uint64
}

// NewTrailerService creates a new TrailerService. events and cache may be nil.
func NewTrailerService(repo repositories.TrailerRepository, events EventPublisher, cache AggregateCache, log *logger.Logger) *TrailerService {
	if log == nil {
		log = logger.Default()
	}
	return &TrailerService{
		repo:     repo,
		events:   events,
		cache:    cache,
		validate: NewValidator(),
		log:      log.WithComponent("trailer_service"),
	}
}

// ListTrailers returns one page of trailers with its pagination metadata.
func (s *TrailerService) ListTrailers(ctx context.Context, q ListQuery) ([]models.Trailer, Pagination, error) {
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, Pagination{}, err
	}
	trailers, err := s.repo.List(ctx, q.Filter, q.Sort, q.Page)
	if err != nil {
		return nil, Pagination{}, err
	}
	return trailers, NewPagination(q.Page, total), nil
}

// GetTrailer retrieves a single trailer by its ID or slug.
func (s *TrailerService) GetTrailer(ctx context.Context, idOrSlug string) (*models.Trailer, error) {
	return s.resolve(ctx, idOrSlug)
}

// CreateTrailer normalizes and validates in, then stores a new trailer under a unique slug.
func (s *TrailerService) CreateTrailer(ctx context.Context, in CreateTrailerInput) (*models.Trailer, error) {
	in.Normalize()
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	source := in.Slug
	if source == "" {
		source = in.Name
	}
	base := slug.Create(source)
	if base == "" {
		return nil, apperror.Validation(apperror.FieldError{Field: "slug", Message: "Slug is required"})
	}
	unique, err := s.uniqueSlug(ctx, base, "")
	if err != nil {
		return nil, err
	}

	t := &models.Trailer{
		Name:             in.Name,
		Slug:             unique,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Brand:            in.Brand,
		Model:            in.Model,
		Category:         models.Category(in.Category),
		Currency:         models.CurrencyUAH,
		Images:           in.Images,
		Specifications:   toSpecifications(in.Specifications),
		MetaTitle:        in.MetaTitle,
		MetaDescription:  in.MetaDescription,
		Keywords:         in.Keywords,
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.Currency != "" {
		t.Currency = models.Currency(in.Currency)
	}
	if in.IsFeatured != nil {
		t.IsFeatured = *in.IsFeatured
	}
	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}
	quantity := 0
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	t.ApplyStock(quantity, inStock)

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.changed(ctx, EventTrailerCreated, t)
	return t, nil
}

// UpdateTrailer applies a partial update to the trailer identified by idOrSlug.
func (s *TrailerService) UpdateTrailer(ctx context.Context, idOrSlug string, in UpdateTrailerInput) (*models.Trailer, error) {
	in.Normalize()
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	t, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	var base string
	switch {
	case in.Slug != nil:
		base = slug.Create(*in.Slug)
	case in.Name != nil && *in.Name != t.Name:
		base = slug.Create(*in.Name)
	}
	in.apply(t)
	if in.Slug != nil || base != "" {
		if base == "" {
			return nil, apperror.Validation(apperror.FieldError{Field: "slug", Message: "Slug is required", Value: *in.Slug})
		}
		if t.Slug, err = s.uniqueSlug(ctx, base, t.ID); err != nil {
			return nil, err
		}
	}

	inStock, quantity := t.InStock, t.Quantity
	if in.InStock != nil {
		inStock = *in.InStock
	}
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	t.ApplyStock(quantity, inStock)

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.changed(ctx, EventTrailerUpdated, t)
	return t, nil
}

// DeleteTrailer removes the trailer identified by idOrSlug.
func (s *TrailerService) DeleteTrailer(ctx context.Context, idOrSlug string) error {
	t, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, t.ID); err != nil {
		return err
	}
	s.changed(ctx, EventTrailerDeleted, t)
	return nil
}

// UpdateStock sets the quantity of a trailer. The trailer is in stock exactly when quantity > 0.
func (s *TrailerService) UpdateStock(ctx context.Context, idOrSlug string, quantity int) (*models.Trailer, error) {
	if quantity < 0 {
		return nil, apperror.Validation(apperror.FieldError{Field: "quantity", Message: "Valid quantity is required", Value: quantity})
	}
	t, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	t.ApplyStock(quantity, true)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	s.changed(ctx, EventTrailerStockUpdated, t)
	return t, nil
}

// FeaturedTrailers returns the newest featured trailers that are in stock.
func (s *TrailerService) FeaturedTrailers(ctx context.Context, limit int) ([]models.Trailer, error) {
	yes := true
	filter := repositories.TrailerFilter{IsFeatured: &yes, InStock: &yes}
	return s.repo.List(ctx, filter, repositories.Newest, repositories.Page{Number: 1, Limit: limit})
}

// SearchTrailers matches q against name, brand, model, category and keywords.
func (s *TrailerService) SearchTrailers(ctx context.Context, q string, limit int) ([]models.Trailer, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, apperror.New(apperror.KindValidation, "Search query is required")
	}
	filter := repositories.TrailerFilter{Search: q}
	return s.repo.List(ctx, filter, repositories.Newest, repositories.Page{Number: 1, Limit: limit})
}

// Categories returns every category with its in-stock count, in declaration order.
func (s *TrailerService) Categories(ctx context.Context) ([]CategoryCount, error) {
	var cached []CategoryCount
	if s.cached(ctx, CacheKeyCategories, &cached) {
		return cached, nil
	}
	gen := s.generation.Load()

	yes := true
	counts := make([]CategoryCount, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		n, err := s.repo.Count(ctx, repositories.TrailerFilter{Category: c, InStock: &yes})
		if err != nil {
			return nil, err
		}
		counts = append(counts, CategoryCount{Name: c, Count: n})
	}
	s.store(ctx, CacheKeyCategories, counts, gen)
	return counts, nil
}

// Brands returns every distinct brand with its in-stock count, sorted by name.
func (s *TrailerService) Brands(ctx context.Context) ([]repositories.BrandCount, error) {
	var cached []repositories.BrandCount
	if s.cached(ctx, CacheKeyBrands, &cached) {
		return cached, nil
	}
	gen := s.generation.Load()

	counts, err := s.repo.BrandCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, CacheKeyBrands, counts, gen)
	return counts, nil
}

// resolve looks a trailer up by UUID first and by slug second.
func (s *TrailerService) resolve(ctx context.Context, idOrSlug string) (*models.Trailer, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	isSlug := slug.IsValid(idOrSlug)

	if _, err := uuid.Parse(idOrSlug); err == nil {
		t, err := s.repo.GetByID(ctx, idOrSlug)
		if err == nil || !apperror.Is(err, apperror.KindNotFound) || !isSlug {
			return t, err
		}
	} else if !isSlug {
		return nil, apperror.InvalidID()
	}
	return s.repo.GetBySlug(ctx, idOrSlug)
}

func (s *TrailerService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	unique, err := slug.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, excludeID)
	})
	if errors.Is(err, slug.ErrExhausted) {
		return "", apperror.Duplicate("slug", base)
	}
	return unique, err
}

// changed publishes the event for a mutation and drops the cached aggregates.
func (s *TrailerService) changed(ctx context.Context, eventType string, t *models.Trailer) {
	s.generation.Add(1)
	if s.cache != nil {
		if err := s.cache.Delete(ctx, CacheKeyCategories, CacheKeyBrands); err != nil {
			s.log.Warnw("failed to invalidate catalog cache", "error", err)
		}
	}
	if s.events == nil {
		return
	}

	event := TrailerEvent{Type: eventType, TrailerID: t.ID, Slug: t.Slug, OccurredAt: time.Now().UTC()}
	if eventType != EventTrailerDeleted {
		event.Trailer = t
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.log.Warnw("failed to encode catalog event", "type", eventType, "error", err)
		return
	}
	if err := s.events.Publish(ctx, eventType, body); err != nil {
		s.log.Warnw("failed to publish catalog event", "type", eventType, "trailer_id", t.ID, "error", err)
	}
}

func (s *TrailerService) cached(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warnw("catalog cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

// store caches value unless a mutation happened since gen was read.
func (s *TrailerService) store(ctx context.Context, key string, value interface{}, gen uint64) {
	if s.cache == nil || s.generation.Load() != gen {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warnw("catalog cache write failed", "key", key, "error", err)
	}
}

// AuditEvent decodes a catalog event and records it in the log.
func AuditEvent(log *logger.Logger, body []byte) error {
	var event TrailerEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode catalog event: %w", err)
	}
	if event.Type == "" || event.TrailerID == "" {
		return fmt.Errorf("catalog event is missing type or trailer id")
	}
	log.Infow("catalog event",
		"type", event.Type,
		"trailer_id", event.TrailerID,
		"slug", event.Slug,
		"occurred_at", event.OccurredAt,
	)
	return nil
}
