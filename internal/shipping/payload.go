package shipping

import (
	"fmt"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/shopspring/decimal"
)

// ProductLine is one carrier "product" descriptor, one per order item.
type ProductLine struct {
	SKU         string `json:"sku"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// OrderPayload is the JSON body for the carrier's order-creation endpoint.
// Package metrics are single-element string arrays and monetary amounts
// are 2-decimal strings, per the carrier's expected shape.
type OrderPayload struct {
	ClientOrderID    string        `json:"client_order_id"`
	ConsigneeName    string        `json:"consignee_name"`
	ConsigneePhone   string        `json:"consignee_phone"`
	ConsigneeEmail   string        `json:"consignee_email"`
	ConsigneeAddress string        `json:"consignee_address"`
	ConsigneePincode string        `json:"consignee_pincode"`
	InvoiceNumber    string        `json:"invoice_number"`
	CourierCode      string        `json:"courier_code"`
	ServiceCode      string        `json:"service_code"`
	PaymentType      string        `json:"payment_type"`
	Products         []ProductLine `json:"products"`
	ShipmentWidth    []string      `json:"shipment_width"`
	ShipmentHeight   []string      `json:"shipment_height"`
	ShipmentLength   []string      `json:"shipment_length"`
	ShipmentWeight   []string      `json:"shipment_weight"`
	OrderAmount      string        `json:"order_amount"`
}

// Fixed courier/service selection.
const (
	defaultCourierCode = "PXC-001"
	defaultServiceCode = "standard"
	defaultPaymentType = "prepaid"
)

// PayloadLine is one order item joined with its resolved supplier product
// and variant, which carry the package metrics and catalog text.
type PayloadLine struct {
	Item    models.OrderItem
	Product models.SupplierProduct
	Variant models.SupplierProductVariant
}

// BuildOrderPayload assembles the carrier payload for an order. Package
// metrics are summed across items and the order amount is the sum of the
// item line totals (not the client-submitted order total).
func BuildOrderPayload(order *models.Order, lines []PayloadLine) *OrderPayload {
	var width, height, length, weight float64
	amount := decimal.Zero
	products := make([]ProductLine, 0, len(lines))

	for _, l := range lines {
		width += l.Product.PkgWidth
		height += l.Product.PkgHeight
		length += l.Product.PkgLength
		weight += l.Product.Weight

		amount = amount.Add(decimal.NewFromFloat(l.Item.Total))

		sku := ""
		if l.Variant.SKU != nil {
			sku = *l.Variant.SKU
		} else if l.Product.SKU != nil {
			sku = *l.Product.SKU
		}

		products = append(products, ProductLine{
			SKU:         sku,
			Name:        l.Product.Name,
			Quantity:    l.Item.Quantity,
			Category:    l.Product.Category,
			Description: l.Product.Description,
		})
	}

	return &OrderPayload{
		ClientOrderID:    order.OrderNo,
		ConsigneeName:    order.ShippingName,
		ConsigneePhone:   order.ShippingPhone,
		ConsigneeEmail:   order.ShippingEmail,
		ConsigneeAddress: order.ShippingAddress,
		ConsigneePincode: order.ShippingZip,
		InvoiceNumber:    invoiceNumber(order.ID),
		CourierCode:      defaultCourierCode,
		ServiceCode:      defaultServiceCode,
		PaymentType:      defaultPaymentType,
		Products:         products,
		ShipmentWidth:    []string{formatMetric(width)},
		ShipmentHeight:   []string{formatMetric(height)},
		ShipmentLength:   []string{formatMetric(length)},
		ShipmentWeight:   []string{formatMetric(weight)},
		OrderAmount:      amount.StringFixed(2),
	}
}

func invoiceNumber(orderID int64) string {
	return fmt.Sprintf("INV-%d", orderID)
}

func formatMetric(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
