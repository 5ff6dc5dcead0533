package models

import "time"

// ShopifyStore is one connected storefront belonging to a dropshipper.
type ShopifyStore struct {
	ID            int64     `json:"id" db:"id"`
	DropshipperID int64     `json:"dropshipperId" db:"dropshipper_id"`
	Domain        string    `json:"domain" db:"domain"` // e.g. my-shop.myshopify.com
	AccessToken   string    `json:"-" db:"access_token"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// MarketplaceProductMap ties a supplier product pushed by a dropshipper to
// the remote Shopify product it became. A row exists only after BOTH the
// remote product and its variants were created successfully.
type MarketplaceProductMap struct {
	ID                int64     `json:"id" db:"id"`
	SupplierProductID int64     `json:"supplierProductId" db:"supplier_product_id"`
	StoreID           int64     `json:"storeId" db:"store_id"`
	RemoteProductID   string    `json:"remoteProductId" db:"remote_product_id"`
	DropshipperID     int64     `json:"dropshipperId" db:"dropshipper_id"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`

	Variants []MarketplaceVariantMap `json:"variants,omitempty" db:"-"`
}

// MarketplaceVariantMap is one pushed variant's price/status snapshot.
type MarketplaceVariantMap struct {
	ID        int64   `json:"id" db:"id"`
	MapID     int64   `json:"mapId" db:"map_id"`
	VariantID int64   `json:"variantId" db:"variant_id"`
	Price     float64 `json:"price" db:"price"`
	Status    string  `json:"status" db:"status"`
}
