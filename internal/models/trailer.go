package models

import (
	"encoding/json"
	"time"
)

// Category is one of the fixed trailer categories.
type Category string

const (
	CategoryPassenger    Category = "Легкові причепи"
	CategoryCargo        Category = "Вантажні причепи"
	CategorySpecial      Category = "Спеціальні причепи"
	CategoryConstruction Category = "Будівельні причепи"
	CategoryBoat         Category = "Причепи для човнів"
)

// Categories returns the fixed category list in display order.
func Categories() []Category {
	return []Category{CategoryPassenger, CategoryCargo, CategorySpecial, CategoryConstruction, CategoryBoat}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Currency is the price currency of a trailer.
type Currency string

const (
	CurrencyUAH Currency = "UAH"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyUAH, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

// Specification is a single technical characteristic of a trailer.
type Specification struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// Trailer represents a trailer in the catalog.
type Trailer struct {
	ID               string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string          `json:"name" gorm:"size:200;not null"`
	Slug             string          `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description      string          `json:"description" gorm:"type:text;not null"`
	ShortDescription string          `json:"shortDescription" gorm:"size:500;not null"`
	Brand            string          `json:"brand" gorm:"size:100;not null;index"`
	Model            string          `json:"model" gorm:"size:100;not null"`
	Category         Category        `json:"category" gorm:"size:64;not null;index"`
	Price            float64         `json:"price" gorm:"not null;index"`
	Currency         Currency        `json:"currency" gorm:"size:3;not null;default:UAH"`
	InStock          bool            `json:"inStock" gorm:"not null;index"`
	Quantity         int             `json:"quantity" gorm:"not null"`
	Images           []string        `json:"images" gorm:"type:text;serializer:json"`
	Specifications   []Specification `json:"specifications" gorm:"type:text;serializer:json"`
	MetaTitle        string          `json:"metaTitle" gorm:"size:160"`
	MetaDescription  string          `json:"metaDescription" gorm:"size:320"`
	Keywords         []string        `json:"keywords" gorm:"type:text;serializer:json"`
	IsFeatured       bool            `json:"isFeatured" gorm:"not null;index"`
	CreatedAt        time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// TableName returns the table name for Trailer.
func (Trailer) TableName() string {
	return "trailers"
}

// ApplyStock sets the quantity (clamped at zero) and the stock flag.
// A trailer with nothing left is never reported in stock.
func (t *Trailer) ApplyStock(quantity int, inStock bool) {
	if quantity < 0 {
		quantity = 0
	}
	t.Quantity = quantity
	t.InStock = inStock && quantity > 0
}

// IsAvailable reports whether the trailer can be ordered right now.
func (t Trailer) IsAvailable() bool {
	return t.InStock && t.Quantity > 0
}

// MarshalJSON adds the derived isAvailable field and keeps list fields as arrays.
func (t Trailer) MarshalJSON() ([]byte, error) {
	type plain Trailer
	out := struct {
		plain
		IsAvailable bool `json:"isAvailable"`
	}{plain: plain(t), IsAvailable: t.IsAvailable()}

	if out.Images == nil {
		out.Images = []string{}
	}
	if out.Specifications == nil {
		out.Specifications = []Specification{}
	}
	if out.Keywords == nil {
		out.Keywords = []string{}
	}
	return json.Marshal(out)
}
