package services

import (
	"strings"

	"trailerstore/internal/models"
)

// SpecificationInput is a specification row in a create or update request.
type SpecificationInput struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
	Unit  string `json:"unit"`
}

// CreateTrailerInput is the request body for creating a trailer.
type CreateTrailerInput struct {
	Name             string               `json:"name" validate:"required,min=3,max=200"`
	Slug             string               `json:"slug" validate:"omitempty,max=200"`
	Description      string               `json:"description" validate:"required"`
	ShortDescription string               `json:"shortDescription" validate:"required,max=500"`
	Brand            string               `json:"brand" validate:"required,max=100"`
	Model            string               `json:"model" validate:"required,max=100"`
	Category         string               `json:"category" validate:"required,trailer_category"`
	Price            *float64             `json:"price" validate:"required,gte=0"`
	Currency         string               `json:"currency" validate:"omitempty,oneof=UAH USD EUR"`
	InStock          *bool                `json:"inStock"`
	Quantity         *int                 `json:"quantity" validate:"required,gte=0"`
	Images           []string             `json:"images" validate:"omitempty,dive,image_url"`
	Specifications   []SpecificationInput `json:"specifications" validate:"omitempty,dive"`
	MetaTitle        string               `json:"metaTitle" validate:"omitempty,max=160"`
	MetaDescription  string               `json:"metaDescription" validate:"omitempty,max=320"`
	Keywords         []string             `json:"keywords"`
	IsFeatured       *bool                `json:"isFeatured"`
}

// Normalize trims text fields and lowercases keywords.
func (in *CreateTrailerInput) Normalize() {
	for _, s := range []*string{
		&in.Name, &in.Slug, &in.Description, &in.ShortDescription, &in.Brand,
		&in.Model, &in.Category, &in.Currency, &in.MetaTitle, &in.MetaDescription,
	} {
		*s = strings.TrimSpace(*s)
	}
	normalizeSpecifications(in.Specifications)
	in.Keywords = normalizeKeywords(in.Keywords)
}

// UpdateTrailerInput is the request body for a partial update. Nil fields are left unchanged.
type UpdateTrailerInput struct {
	Name             *string              `json:"name" validate:"omitempty,min=3,max=200"`
	Slug             *string              `json:"slug" validate:"omitempty,max=200"`
	Description      *string              `json:"description" validate:"omitempty,min=1"`
	ShortDescription *string              `json:"shortDescription" validate:"omitempty,min=1,max=500"`
	Brand            *string              `json:"brand" validate:"omitempty,min=1,max=100"`
	Model            *string              `json:"model" validate:"omitempty,min=1,max=100"`
	Category         *string              `json:"category" validate:"omitempty,trailer_category"`
	Price            *float64             `json:"price" validate:"omitempty,gte=0"`
	Currency         *string              `json:"currency" validate:"omitempty,oneof=UAH USD EUR"`
	InStock          *bool                `json:"inStock"`
	Quantity         *int                 `json:"quantity" validate:"omitempty,gte=0"`
	Images           []string             `json:"images" validate:"omitempty,dive,image_url"`
	Specifications   []SpecificationInput `json:"specifications" validate:"omitempty,dive"`
	MetaTitle        *string              `json:"metaTitle" validate:"omitempty,max=160"`
	MetaDescription  *string              `json:"metaDescription" validate:"omitempty,max=320"`
	Keywords         []string             `json:"keywords"`
	IsFeatured       *bool                `json:"isFeatured"`
}

// Normalize trims text fields and lowercases keywords.
func (in *UpdateTrailerInput) Normalize() {
	for _, s := range []*string{
		in.Name, in.Slug, in.Description, in.ShortDescription, in.Brand,
		in.Model, in.Category, in.Currency, in.MetaTitle, in.MetaDescription,
	} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	normalizeSpecifications(in.Specifications)
	if in.Keywords != nil {
		in.Keywords = normalizeKeywords(in.Keywords)
	}
}

// apply copies the set fields onto t. Slug and stock are handled by the service.
func (in *UpdateTrailerInput) apply(t *models.Trailer) {
	setString(&t.Name, in.Name)
	setString(&t.Description, in.Description)
	setString(&t.ShortDescription, in.ShortDescription)
	setString(&t.Brand, in.Brand)
	setString(&t.Model, in.Model)
	setString(&t.MetaTitle, in.MetaTitle)
	setString(&t.MetaDescription, in.MetaDescription)
	if in.Category != nil {
		t.Category = models.Category(*in.Category)
	}
	if in.Currency != nil {
		t.Currency = models.Currency(*in.Currency)
	}
	if in.Price != nil {
		t.Price = *in.Price
	}
	if in.IsFeatured != nil {
		t.IsFeatured = *in.IsFeatured
	}
	if in.Images != nil {
		t.Images = in.Images
	}
	if in.Specifications != nil {
		t.Specifications = toSpecifications(in.Specifications)
	}
	if in.Keywords != nil {
		t.Keywords = in.Keywords
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func normalizeSpecifications(specs []SpecificationInput) {
	for i := range specs {
		specs[i].Name = strings.TrimSpace(specs[i].Name)
		specs[i].Value = strings.TrimSpace(specs[i].Value)
		specs[i].Unit = strings.TrimSpace(specs[i].Unit)
	}
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func toSpecifications(in []SpecificationInput) []models.Specification {
	specs := make([]models.Specification, 0, len(in))
	for _, s := range in {
		specs = append(specs, models.Specification{Name: s.Name, Value: s.Value, Unit: s.Unit})
	}
	return specs
}
