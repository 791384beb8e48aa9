package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"trailerstore/internal/apperror"
	"trailerstore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTrailerRepository is a GORM implementation of TrailerRepository.
type GORMTrailerRepository struct {
	db *gorm.DB
}

// NewGORMTrailerRepository creates a new instance of GORMTrailerRepository.
// The *gorm.DB should be opened with TranslateError enabled so unique-index
// violations surface as gorm.ErrDuplicatedKey.
func NewGORMTrailerRepository(db *gorm.DB) *GORMTrailerRepository {
	return &GORMTrailerRepository{
		db: db,
	}
}

// List retrieves the trailers matching filter, ordered and paginated.
func (r *GORMTrailerRepository) List(ctx context.Context, filter TrailerFilter, sort Sort, page Page) ([]models.Trailer, error) {
	column, ok := sort.Field.Column()
	if !ok {
		column, _ = SortByCreatedAt.Column()
	}

	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Trailer{}), filter).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: sort.Desc})
	if page.Limit > 0 {
		q = q.Offset(page.Offset()).Limit(page.Limit)
	}

	var trailers []models.Trailer
	if err := q.Find(&trailers).Error; err != nil {
		return nil, translateError(err, "list trailers")
	}
	return trailers, nil
}

// Count returns the number of trailers matching filter.
func (r *GORMTrailerRepository) Count(ctx context.Context, filter TrailerFilter) (int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.Trailer{}), filter).Count(&total).Error; err != nil {
		return 0, translateError(err, "count trailers")
	}
	return total, nil
}

// GetByID retrieves a single trailer by its ID.
func (r *GORMTrailerRepository) GetByID(ctx context.Context, id string) (*models.Trailer, error) {
	var trailer models.Trailer
	if err := r.db.WithContext(ctx).First(&trailer, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "get trailer by ID "+id)
	}
	return &trailer, nil
}

// GetBySlug retrieves a single trailer by its slug.
func (r *GORMTrailerRepository) GetBySlug(ctx context.Context, slug string) (*models.Trailer, error) {
	var trailer models.Trailer
	if err := r.db.WithContext(ctx).First(&trailer, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err, "get trailer by slug "+slug)
	}
	return &trailer, nil
}

// SlugExists reports whether another trailer already uses slug.
func (r *GORMTrailerRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Trailer{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, translateError(err, "check slug "+slug)
	}
	return n > 0, nil
}

// BrandCounts returns every distinct brand with its number of in-stock trailers, sorted by brand.
func (r *GORMTrailerRepository) BrandCounts(ctx context.Context) ([]BrandCount, error) {
	var counts []BrandCount
	err := r.db.WithContext(ctx).Model(&models.Trailer{}).
		Select("brand AS name, SUM(CASE WHEN in_stock THEN 1 ELSE 0 END) AS count").
		Group("brand").
		Order("brand").
		Scan(&counts).Error
	if err != nil {
		return nil, translateError(err, "count brands")
	}
	return counts, nil
}

// Create creates a new trailer in the database.
func (r *GORMTrailerRepository) Create(ctx context.Context, trailer *models.Trailer) error {
	if trailer.ID == "" {
		trailer.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(trailer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Duplicate("slug", trailer.Slug).WithCause(err)
		}
		return translateError(err, "create trailer")
	}
	return nil
}

// Update writes every column of an existing trailer.
func (r *GORMTrailerRepository) Update(ctx context.Context, trailer *models.Trailer) error {
	res := r.db.WithContext(ctx).Model(trailer).Select("*").Omit("created_at").Updates(trailer)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperror.Duplicate("slug", trailer.Slug).WithCause(res.Error)
		}
		return translateError(res.Error, "update trailer")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Trailer")
	}
	return nil
}

// Delete deletes a trailer by its ID. The row is removed, not soft-deleted.
func (r *GORMTrailerRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Trailer{}, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error, "delete trailer")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Trailer")
	}
	return nil
}

// DeleteAll removes every trailer and returns how many were deleted.
func (r *GORMTrailerRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.Trailer{})
	if res.Error != nil {
		return 0, translateError(res.Error, "delete all trailers")
	}
	return res.RowsAffected, nil
}

// applyFilter adds the WHERE clauses for filter to q.
func (r *GORMTrailerRepository) applyFilter(q *gorm.DB, filter TrailerFilter) *gorm.DB {
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Brand != "" {
		q = q.Where(`LOWER(brand) LIKE ? ESCAPE '\'`, likePattern(filter.Brand))
	}
	if filter.InStock != nil {
		q = q.Where("in_stock = ?", *filter.InStock)
	}
	if filter.IsFeatured != nil {
		q = q.Where("is_featured = ?", *filter.IsFeatured)
	}
	if filter.Price.Min != nil {
		q = q.Where("price >= ?", *filter.Price.Min)
	}
	if filter.Price.Max != nil {
		q = q.Where("price <= ?", *filter.Price.Max)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(brand) LIKE ? ESCAPE '\'`+
			` OR LOWER(model) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`+
			` OR `+r.keywordMatch()+`)`, p, p, p, p, p)
	}
	return q
}

// keywordMatch returns a condition that holds when any element of the keywords
// JSON array matches the single LIKE argument.
func (r *GORMTrailerRepository) keywordMatch() string {
	if r.db.Dialector.Name() == "postgres" {
		return `EXISTS (SELECT 1 FROM jsonb_array_elements_text(COALESCE(NULLIF(trailers.keywords, ''), '[]')::jsonb) AS kw(value)` +
			` WHERE LOWER(kw.value) LIKE ? ESCAPE '\')`
	}
	return `EXISTS (SELECT 1 FROM json_each(trailers.keywords) AS kw WHERE LOWER(kw.value) LIKE ? ESCAPE '\')`
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a lowercase "contains" pattern with LIKE wildcards escaped.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// translateError maps driver errors onto apperror kinds.
func translateError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("Trailer")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.New(apperror.KindDuplicate, "Trailer already exists").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.Unavailable("Database timeout error", err)
	case errors.Is(err, driver.ErrBadConn):
		return apperror.Unavailable("Database connection error", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperror.Unavailable("Database connection error", err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
