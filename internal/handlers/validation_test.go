package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItems(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		items, err := parseItems(`[{"dropshipperProductId":1,"dropshipperProductVariantId":10,"quantity":2,"price":100,"total":200}]`)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].DropshipperProductID)
		assert.Equal(t, int64(10), items[0].DropshipperProductVariantID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 100.0, items[0].Price)
	})

	t.Run("empty array rejected", func(t *testing.T) {
		_, err := parseItems(`[]`)
		assert.EqualError(t, err, "items are not valid or empty")
	})

	t.Run("not an array rejected", func(t *testing.T) {
		_, err := parseItems(`{"dropshipperProductId":1}`)
		assert.EqualError(t, err, "items are not valid or empty")
	})

	t.Run("missing field rejected", func(t *testing.T) {
		_, err := parseItems("")
		assert.EqualError(t, err, "items are not valid or empty")
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		_, err := parseItems(`[{"quantity":`)
		assert.EqualError(t, err, "items are not valid or empty")
	})
}

func TestVerifyTotals(t *testing.T) {
	tests := []struct {
		name                          string
		subtotal, tax, discount, total float64
		want                          bool
	}{
		{"exact", 100, 18, 10, 108, true},
		{"one cent off tolerated", 100, 18, 10, 108.01, true},
		{"two cents off rejected", 100, 18, 10, 108.02, false},
		{"client-inflated total rejected", 100, 18, 10, 200, false},
		{"zero everything", 0, 0, 0, 0, true},
		{"float artifacts tolerated", 0.1, 0.2, 0, 0.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, verifyTotals(tt.subtotal, tt.tax, tt.discount, tt.total))
		})
	}
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 200.0, lineTotal(2, 100))
	assert.Equal(t, 59.97, lineTotal(3, 19.99))
	assert.Equal(t, 0.0, lineTotal(0, 19.99))
}
