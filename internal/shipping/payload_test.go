package shipping

import (
	"testing"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func testOrder() *models.Order {
	return &models.Order{
		ID:              42,
		OrderNo:         "ORD-1735600000-9F3A2C1B",
		ShippingName:    "Asha Rao",
		ShippingPhone:   "9876543210",
		ShippingEmail:   "asha@example.com",
		ShippingAddress: "12 MG Road, Bengaluru",
		ShippingZip:     "560001",
	}
}

func TestBuildOrderPayloadAggregatesPackageMetrics(t *testing.T) {
	lines := []PayloadLine{
		{
			Item:    models.OrderItem{Quantity: 2, Price: 100, Total: 200},
			Product: models.SupplierProduct{Name: "Mug", Category: "kitchen", Description: "Ceramic mug", PkgWidth: 10, PkgHeight: 8, PkgLength: 12, Weight: 0.4, SKU: strPtr("MUG-1")},
			Variant: models.SupplierProductVariant{SKU: strPtr("MUG-1-BLUE")},
		},
		{
			Item:    models.OrderItem{Quantity: 1, Price: 50.5, Total: 50.5},
			Product: models.SupplierProduct{Name: "Coaster", Category: "kitchen", Description: "Cork coaster", PkgWidth: 5.5, PkgHeight: 1, PkgLength: 5.5, Weight: 0.1},
			Variant: models.SupplierProductVariant{},
		},
	}

	p := BuildOrderPayload(testOrder(), lines)

	// Metrics are the per-item sums, encoded as single-element string
	// arrays.
	assert.Equal(t, []string{"15.50"}, p.ShipmentWidth)
	assert.Equal(t, []string{"9.00"}, p.ShipmentHeight)
	assert.Equal(t, []string{"17.50"}, p.ShipmentLength)
	assert.Equal(t, []string{"0.50"}, p.ShipmentWeight)

	// Order amount is the sum of line totals, 2-decimal formatted.
	assert.Equal(t, "250.50", p.OrderAmount)

	assert.Equal(t, "INV-42", p.InvoiceNumber)
	assert.Equal(t, "ORD-1735600000-9F3A2C1B", p.ClientOrderID)
	assert.Equal(t, "Asha Rao", p.ConsigneeName)
	assert.Equal(t, "560001", p.ConsigneePincode)
}

func TestBuildOrderPayloadProductDescriptors(t *testing.T) {
	lines := []PayloadLine{
		{
			Item:    models.OrderItem{Quantity: 3, Total: 30},
			Product: models.SupplierProduct{Name: "Pen", Category: "stationery", Description: "Gel pen", SKU: strPtr("PEN-9")},
			Variant: models.SupplierProductVariant{SKU: strPtr("PEN-9-RED")},
		},
	}

	p := BuildOrderPayload(testOrder(), lines)

	assert.Len(t, p.Products, 1)
	line := p.Products[0]
	// Variant SKU wins over product SKU when present.
	assert.Equal(t, "PEN-9-RED", line.SKU)
	assert.Equal(t, "Pen", line.Name)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, "stationery", line.Category)
	assert.Equal(t, "Gel pen", line.Description)
}

func TestBuildOrderPayloadEmptyLines(t *testing.T) {
	p := BuildOrderPayload(testOrder(), nil)

	assert.Empty(t, p.Products)
	assert.Equal(t, "0.00", p.OrderAmount)
	assert.Equal(t, []string{"0.00"}, p.ShipmentWeight)
}

func TestExtractAWB(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantAWB string
		wantOK  bool
	}{
		{"valid", `{"status":true,"data":{"awb_number":"PX123456789"}}`, "PX123456789", true},
		{"missing data", `{"status":true}`, "", false},
		{"data not object", `{"data":"PX123"}`, "", false},
		{"awb not string", `{"data":{"awb_number":123}}`, "", false},
		{"empty awb", `{"data":{"awb_number":""}}`, "", false},
		{"malformed json", `{not json`, "", false},
		{"empty blob", ``, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			awb, ok := ExtractAWB([]byte(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAWB, awb)
		})
	}
}
