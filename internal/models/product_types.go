package models

import "time"

// SupplierProduct is the model for the 'supplier_products' table.
// Package dimensions feed the carrier payload at shipment time.
type SupplierProduct struct {
	ID          int64   `json:"id" db:"id"`
	SupplierID  int64   `json:"supplierId" db:"supplier_id"`
	SKU         *string `json:"sku,omitempty" db:"sku"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Category    string  `json:"category" db:"category"`
	Price       float64 `json:"price" db:"price"`

	// --- Shipping / package metrics ---
	PkgWidth  float64 `json:"pkgWidth" db:"pkg_width"`
	PkgHeight float64 `json:"pkgHeight" db:"pkg_height"`
	PkgLength float64 `json:"pkgLength" db:"pkg_length"`
	Weight    float64 `json:"weight" db:"weight"` // chargeable weight, kg

	// Package image URLs, stored as a JSON array column.
	Images []string `json:"images" db:"-"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// SupplierProductVariant is the model for 'supplier_product_variants'.
type SupplierProductVariant struct {
	ID                int64     `json:"id" db:"id"`
	SupplierProductID int64     `json:"supplierProductId" db:"supplier_product_id"`
	SKU               *string   `json:"sku,omitempty" db:"sku"`
	Price             float64   `json:"price" db:"price"`
	Options           string    `json:"options" db:"options"` // JSON string in DB
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// DropshipperProduct is a dropshipper's listing of a supplier product.
// It carries the back-references used to resolve the supplier side of an
// order line.
type DropshipperProduct struct {
	ID                int64     `json:"id" db:"id"`
	DropshipperID     int64     `json:"dropshipperId" db:"dropshipper_id"`
	SupplierProductID int64     `json:"supplierProductId" db:"supplier_product_id"`
	SupplierID        int64     `json:"supplierId" db:"supplier_id"`
	Name              string    `json:"name" db:"name"`
	Price             float64   `json:"price" db:"price"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// DropshipperProductVariant maps a dropshipper variant to the supplier's.
type DropshipperProductVariant struct {
	ID                       int64     `json:"id" db:"id"`
	DropshipperProductID     int64     `json:"dropshipperProductId" db:"dropshipper_product_id"`
	SupplierProductVariantID int64     `json:"supplierProductVariantId" db:"supplier_product_variant_id"`
	Price                    float64   `json:"price" db:"price"`
	CreatedAt                time.Time `json:"createdAt" db:"created_at"`
}
