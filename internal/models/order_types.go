package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order lifecycle statuses.
const (
	OrderStatusPending      = "pending"
	OrderStatusPlaced       = "placed"
	OrderStatusDelivered    = "delivered"
	OrderStatusRTODelivered = "rto-delivered"
	OrderStatusCancelled    = "cancelled"
)

// Order is the model for the 'orders' table.
// Nullable columns use pointers for clean JSON serialization.
type Order struct {
	ID      int64  `json:"id" db:"id"`
	OrderNo string `json:"orderNo" db:"order_no"` // Unique, immutable after creation
	Status  string `json:"status" db:"status"`

	// --- Money ---
	Subtotal    float64 `json:"subtotal" db:"subtotal"`
	Tax         float64 `json:"tax" db:"tax"`
	Discount    float64 `json:"discount" db:"discount"`
	TotalAmount float64 `json:"totalAmount" db:"total_amount"`
	Currency    string  `json:"currency" db:"currency"`

	// --- Shipping contact + address block ---
	ShippingName      string `json:"shippingName" db:"shipping_name"`
	ShippingPhone     string `json:"shippingPhone" db:"shipping_phone"`
	ShippingEmail     string `json:"shippingEmail" db:"shipping_email"`
	ShippingAddress   string `json:"shippingAddress" db:"shipping_address"`
	ShippingZip       string `json:"shippingZip" db:"shipping_zip"`
	ShippingCityID    int64  `json:"shippingCityId" db:"shipping_city_id"`
	ShippingStateID   int64  `json:"shippingStateId" db:"shipping_state_id"`
	ShippingCountryID int64  `json:"shippingCountryId" db:"shipping_country_id"`

	// --- Billing contact + address block ---
	BillingName      string `json:"billingName" db:"billing_name"`
	BillingPhone     string `json:"billingPhone" db:"billing_phone"`
	BillingEmail     string `json:"billingEmail" db:"billing_email"`
	BillingAddress   string `json:"billingAddress" db:"billing_address"`
	BillingZip       string `json:"billingZip" db:"billing_zip"`
	BillingCityID    int64  `json:"billingCityId" db:"billing_city_id"`
	BillingStateID   int64  `json:"billingStateId" db:"billing_state_id"`
	BillingCountryID int64  `json:"billingCountryId" db:"billing_country_id"`

	PaymentID int64 `json:"paymentId" db:"payment_id"`

	// Public URL path of the generated Code-128 barcode, if any.
	Barcode *string `json:"barcode,omitempty" db:"barcode"`

	// Raw carrier response JSON captured at placement time. Holds the AWB
	// number needed for cancellation and tracking.
	ShippingAPIResult *string `json:"shippingApiResult,omitempty" db:"shipping_api_result"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	// Joins (populated manually)
	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// OrderItem is one line of an order. It binds the dropshipper's listed
// product/variant to the underlying supplier's product/variant.
type OrderItem struct {
	ID                          int64     `json:"id" db:"id"`
	OrderID                     int64     `json:"orderId" db:"order_id"`
	DropshipperProductID        int64     `json:"dropshipperProductId" db:"dropshipper_product_id"`
	DropshipperProductVariantID int64     `json:"dropshipperProductVariantId" db:"dropshipper_product_variant_id"`
	SupplierProductID           int64     `json:"supplierProductId" db:"supplier_product_id"`
	SupplierProductVariantID    int64     `json:"supplierProductVariantId" db:"supplier_product_variant_id"`
	DropshipperID               int64     `json:"dropshipperId" db:"dropshipper_id"`
	SupplierID                  int64     `json:"supplierId" db:"supplier_id"`
	Quantity                    int       `json:"quantity" db:"quantity"`
	Price                       float64   `json:"price" db:"price"`
	Total                       float64   `json:"total" db:"total"`
	CreatedAt                   time.Time `json:"createdAt" db:"created_at"`
}

// ItemOutcome reports what happened to one submitted order line. Lines
// whose product or variant cannot be resolved are skipped rather than
// failing the whole order; the outcome list tells the caller which ones.
type ItemOutcome struct {
	Index       int    `json:"index"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
	OrderItemID *int64 `json:"orderItemId,omitempty"`
}

// NewOrderNo generates an order number, e.g. ORD-1735600000-9F3A2C1B.
// Collision-free by construction via the UUID suffix; the DB unique index
// is the final guarantee.
func NewOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%d-%s", time.Now().Unix(), suffix)
}
