// Package seed loads the sample trailer catalogue.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"trailerstore/internal/models"
	"trailerstore/internal/repositories"
	"trailerstore/internal/services"
	"trailerstore/pkg/logger"

	"gopkg.in/yaml.v3"
)

//go:embed trailers.yaml
var defaultCatalogue []byte

type specification struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Unit  string `yaml:"unit"`
}

type record struct {
	Name             string          `yaml:"name"`
	Slug             string          `yaml:"slug"`
	Description      string          `yaml:"description"`
	ShortDescription string          `yaml:"short_description"`
	Brand            string          `yaml:"brand"`
	Model            string          `yaml:"model"`
	Category         string          `yaml:"category"`
	Price            float64         `yaml:"price"`
	Currency         string          `yaml:"currency"`
	InStock          *bool           `yaml:"in_stock"`
	Quantity         int             `yaml:"quantity"`
	Images           []string        `yaml:"images"`
	Specifications   []specification `yaml:"specifications"`
	MetaTitle        string          `yaml:"meta_title"`
	MetaDescription  string          `yaml:"meta_description"`
	Keywords         []string        `yaml:"keywords"`
	IsFeatured       bool            `yaml:"is_featured"`
}

func (r record) input() services.CreateTrailerInput {
	price, quantity, featured := r.Price, r.Quantity, r.IsFeatured
	in := services.CreateTrailerInput{
		Name:             r.Name,
		Slug:             r.Slug,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		Brand:            r.Brand,
		Model:            r.Model,
		Category:         r.Category,
		Price:            &price,
		Currency:         r.Currency,
		InStock:          r.InStock,
		Quantity:         &quantity,
		Images:           r.Images,
		MetaTitle:        r.MetaTitle,
		MetaDescription:  r.MetaDescription,
		Keywords:         r.Keywords,
		IsFeatured:       &featured,
	}
	for _, s := range r.Specifications {
		in.Specifications = append(in.Specifications, services.SpecificationInput{Name: s.Name, Value: s.Value, Unit: s.Unit})
	}
	in.Normalize()
	return in
}

// Parse decodes a YAML catalogue into create inputs.
func Parse(data []byte) ([]services.CreateTrailerInput, error) {
	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	inputs := make([]services.CreateTrailerInput, 0, len(records))
	for _, r := range records {
		inputs = append(inputs, r.input())
	}
	return inputs, nil
}

// Default returns the embedded sample catalogue.
func Default() ([]services.CreateTrailerInput, error) {
	return Parse(defaultCatalogue)
}

// Run creates every input through service. With reset, all trailers in repo are removed first.
func Run(ctx context.Context, repo repositories.TrailerRepository, service *services.TrailerService, inputs []services.CreateTrailerInput, reset bool, log *logger.Logger) ([]models.Trailer, error) {
	if reset {
		n, err := repo.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to clear trailers: %w", err)
		}
		log.Infow("cleared existing trailer data", "deleted", n)
	}

	created := make([]models.Trailer, 0, len(inputs))
	for _, in := range inputs {
		t, err := service.CreateTrailer(ctx, in)
		if err != nil {
			return created, fmt.Errorf("failed to seed trailer %q: %w", in.Name, err)
		}
		log.Infow("seeded trailer", "name", t.Name, "slug", t.Slug, "id", t.ID)
		created = append(created, *t)
	}
	return created, nil
}
