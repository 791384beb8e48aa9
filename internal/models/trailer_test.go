package models_test

import (
	"encoding/json"
	"testing"

	"trailerstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailer_ApplyStock(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		inStock      bool
		wantQuantity int
		wantInStock  bool
	}{
		{name: "zero forces out of stock", quantity: 0, inStock: true, wantQuantity: 0, wantInStock: false},
		{name: "positive keeps flag", quantity: 5, inStock: true, wantQuantity: 5, wantInStock: true},
		{name: "positive but withdrawn", quantity: 5, inStock: false, wantQuantity: 5, wantInStock: false},
		{name: "negative clamps", quantity: -3, inStock: true, wantQuantity: 0, wantInStock: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tr models.Trailer
			tr.ApplyStock(tt.quantity, tt.inStock)
			assert.Equal(t, tt.wantQuantity, tr.Quantity)
			assert.Equal(t, tt.wantInStock, tr.InStock)
		})
	}
}

func TestCategoryAndCurrency_Valid(t *testing.T) {
	assert.Len(t, models.Categories(), 5)
	assert.True(t, models.Category("Причепи для човнів").Valid())
	assert.False(t, models.Category("Boats").Valid())

	assert.True(t, models.CurrencyEUR.Valid())
	assert.False(t, models.Currency("GBP").Valid())
}

func TestTrailer_MarshalJSON(t *testing.T) {
	tr := models.Trailer{ID: "1", Name: "Trailer", InStock: true, Quantity: 2}

	raw, err := json.Marshal(tr)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, got["isAvailable"])
	assert.Equal(t, "Trailer", got["name"])
	assert.Equal(t, []interface{}{}, got["images"])
	assert.Equal(t, []interface{}{}, got["keywords"])
	assert.Contains(t, got, "shortDescription")
}
