package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Order Handlers ---
//

// orderForm is the multipart field set for POST /api/order.
type orderForm struct {
	Subtotal    float64
	Tax         float64
	Discount    float64
	TotalAmount float64
	Currency    string

	ShippingName      string
	ShippingPhone     string
	ShippingEmail     string
	ShippingAddress   string
	ShippingZip       string
	ShippingCountryID int64
	ShippingStateID   int64
	ShippingCityID    int64

	BillingName      string
	BillingPhone     string
	BillingEmail     string
	BillingAddress   string
	BillingZip       string
	BillingCountryID int64
	BillingStateID   int64
	BillingCityID    int64

	PaymentID int64
	ItemsRaw  string
}

// parseOrderForm reads and validates the multipart fields, reporting
// field-level errors for anything missing or non-numeric.
func parseOrderForm(c *gin.Context) (*orderForm, map[string]string) {
	fieldErrors := make(map[string]string)

	str := func(name string) string {
		v := c.PostForm(name)
		if v == "" {
			fieldErrors[name] = "is required"
		}
		return v
	}
	num := func(name string) float64 {
		v := c.PostForm(name)
		if v == "" {
			fieldErrors[name] = "is required"
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fieldErrors[name] = "must be numeric"
		}
		return f
	}
	id := func(name string) int64 {
		v := c.PostForm(name)
		if v == "" {
			fieldErrors[name] = "is required"
			return 0
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			fieldErrors[name] = "must be a positive id"
		}
		return n
	}

	form := &orderForm{
		Subtotal:    num("subtotal"),
		Tax:         num("tax"),
		Discount:    num("discount"),
		TotalAmount: num("totalAmount"),
		Currency:    str("currency"),

		ShippingName:      str("shippingName"),
		ShippingPhone:     str("shippingPhone"),
		ShippingEmail:     str("shippingEmail"),
		ShippingAddress:   str("shippingAddress"),
		ShippingZip:       str("shippingZip"),
		ShippingCountryID: id("shippingCountry"),
		ShippingStateID:   id("shippingState"),
		ShippingCityID:    id("shippingCity"),

		BillingName:      str("billingName"),
		BillingPhone:     str("billingPhone"),
		BillingEmail:     str("billingEmail"),
		BillingAddress:   str("billingAddress"),
		BillingZip:       str("billingZip"),
		BillingCountryID: id("billingCountry"),
		BillingStateID:   id("billingState"),
		BillingCityID:    id("billingCity"),

		PaymentID: id("payment"),
		ItemsRaw:  c.PostForm("items"),
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return form, nil
}

// CreateOrder is the handler for POST /api/order.
//
// Validation (payment, both location chains, items shape, totals) happens
// before any write. The order, its surviving items and the place-shipment
// outbox row are committed in one transaction; barcode generation runs
// after commit and is non-fatal. Carrier placement is NOT called here —
// the outbox relay and shipment worker own it, so HTTP latency never
// includes the carrier API and a carrier failure never unwinds the order.
func (h *Handlers) CreateOrder(c *gin.Context) {
	// 1. --- Parse & validate form fields ---
	form, fieldErrors := parseOrderForm(c)
	if fieldErrors != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "validation failed", "fields": fieldErrors})
		return
	}

	// 2. --- Payment existence ---
	ok, err := h.paymentExists(form.PaymentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to check payment"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Payment not found"})
		return
	}

	// 3. --- Shipping location hierarchy ---
	ok, err = h.locationChainValid(form.ShippingCityID, form.ShippingStateID, form.ShippingCountryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to check shipping location"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "Shipping location hierarchy is inconsistent"})
		return
	}

	// 4. --- Billing location hierarchy ---
	ok, err = h.locationChainValid(form.BillingCityID, form.BillingStateID, form.BillingCountryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to check billing location"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "Billing location hierarchy is inconsistent"})
		return
	}

	// 5. --- Items shape ---
	items, err := parseItems(form.ItemsRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": err.Error()})
		return
	}

	// 6. --- Server-side total verification ---
	if !verifyTotals(form.Subtotal, form.Tax, form.Discount, form.TotalAmount) {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "totalAmount does not match subtotal + tax - discount"})
		return
	}

	// 7. --- Transaction: order + items + outbox row ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net

	now := time.Now()
	orderNo := models.NewOrderNo()

	// Status is forced to "pending" regardless of anything the client sent.
	res, err := tx.Exec(`
		INSERT INTO orders (
			order_no, status, subtotal, tax, discount, total_amount, currency,
			shipping_name, shipping_phone, shipping_email, shipping_address, shipping_zip,
			shipping_city_id, shipping_state_id, shipping_country_id,
			billing_name, billing_phone, billing_email, billing_address, billing_zip,
			billing_city_id, billing_state_id, billing_country_id,
			payment_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderNo, models.OrderStatusPending,
		form.Subtotal, form.Tax, form.Discount, form.TotalAmount, form.Currency,
		form.ShippingName, form.ShippingPhone, form.ShippingEmail, form.ShippingAddress, form.ShippingZip,
		form.ShippingCityID, form.ShippingStateID, form.ShippingCountryID,
		form.BillingName, form.BillingPhone, form.BillingEmail, form.BillingAddress, form.BillingZip,
		form.BillingCityID, form.BillingStateID, form.BillingCountryID,
		form.PaymentID, now, now,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": fmt.Sprintf("Failed to create order: %v", err)})
		return
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to get new order ID"})
		return
	}

	// 8. --- Resolve and insert items ---
	// A line whose dropshipper product or variant does not resolve is
	// skipped, not fatal; the outcome list tells the caller which ones.
	outcomes := make([]models.ItemOutcome, 0, len(items))
	var savedItems []models.OrderItem

	for i, item := range items {
		outcome := models.ItemOutcome{Index: i}

		var dp models.DropshipperProduct
		err := tx.QueryRow(`
			SELECT id, dropshipper_id, supplier_product_id, supplier_id
			FROM dropshipper_products WHERE id = ?`, item.DropshipperProductID,
		).Scan(&dp.ID, &dp.DropshipperID, &dp.SupplierProductID, &dp.SupplierID)
		if err == sql.ErrNoRows {
			log.Printf("WARNING: order %s item %d: dropshipper product %d not found, skipping", orderNo, i, item.DropshipperProductID)
			outcome.Reason = "dropshipper product not found"
			outcomes = append(outcomes, outcome)
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to resolve product"})
			return
		}

		var dpv models.DropshipperProductVariant
		err = tx.QueryRow(`
			SELECT id, supplier_product_variant_id
			FROM dropshipper_product_variants WHERE id = ? AND dropshipper_product_id = ?`,
			item.DropshipperProductVariantID, item.DropshipperProductID,
		).Scan(&dpv.ID, &dpv.SupplierProductVariantID)
		if err == sql.ErrNoRows {
			log.Printf("WARNING: order %s item %d: variant %d not found, skipping", orderNo, i, item.DropshipperProductVariantID)
			outcome.Reason = "dropshipper product variant not found"
			outcomes = append(outcomes, outcome)
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to resolve variant"})
			return
		}

		total := lineTotal(item.Quantity, item.Price)
		itemRes, err := tx.Exec(`
			INSERT INTO order_items (
				order_id, dropshipper_product_id, dropshipper_product_variant_id,
				supplier_product_id, supplier_product_variant_id,
				dropshipper_id, supplier_id, quantity, price, total, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, dp.ID, dpv.ID,
			dp.SupplierProductID, dpv.SupplierProductVariantID,
			dp.DropshipperID, dp.SupplierID, item.Quantity, item.Price, total, now,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to save order item"})
			return
		}

		itemID, _ := itemRes.LastInsertId()
		outcome.Accepted = true
		outcome.OrderItemID = &itemID
		outcomes = append(outcomes, outcome)

		savedItems = append(savedItems, models.OrderItem{
			ID:                          itemID,
			OrderID:                     orderID,
			DropshipperProductID:        dp.ID,
			DropshipperProductVariantID: dpv.ID,
			SupplierProductID:           dp.SupplierProductID,
			SupplierProductVariantID:    dpv.SupplierProductVariantID,
			DropshipperID:               dp.DropshipperID,
			SupplierID:                  dp.SupplierID,
			Quantity:                    item.Quantity,
			Price:                       item.Price,
			Total:                       total,
			CreatedAt:                   now,
		})
	}

	// 9. --- Enqueue deferred shipment placement (outbox) ---
	if len(savedItems) > 0 {
		if err := enqueuePlacement(tx, orderID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to enqueue shipment placement"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to commit transaction"})
		return
	}

	// 10. --- Barcode (non-fatal) ---
	order := models.Order{
		ID:      orderID,
		OrderNo: orderNo,
		Status:  models.OrderStatusPending,

		Subtotal: form.Subtotal, Tax: form.Tax, Discount: form.Discount,
		TotalAmount: form.TotalAmount, Currency: form.Currency,

		ShippingName: form.ShippingName, ShippingPhone: form.ShippingPhone,
		ShippingEmail: form.ShippingEmail, ShippingAddress: form.ShippingAddress,
		ShippingZip: form.ShippingZip, ShippingCityID: form.ShippingCityID,
		ShippingStateID: form.ShippingStateID, ShippingCountryID: form.ShippingCountryID,

		BillingName: form.BillingName, BillingPhone: form.BillingPhone,
		BillingEmail: form.BillingEmail, BillingAddress: form.BillingAddress,
		BillingZip: form.BillingZip, BillingCityID: form.BillingCityID,
		BillingStateID: form.BillingStateID, BillingCountryID: form.BillingCountryID,

		PaymentID: form.PaymentID,
		CreatedAt: now, UpdatedAt: now,
		Items: savedItems,
	}

	if publicPath, err := h.Barcode.Generate(orderNo); err != nil {
		log.Printf("WARNING: barcode generation failed for order %s: %v", orderNo, err)
	} else if _, err := h.DB.Exec("UPDATE orders SET barcode = ? WHERE id = ?", publicPath, orderID); err != nil {
		log.Printf("WARNING: failed to attach barcode to order %s: %v", orderNo, err)
	} else {
		order.Barcode = &publicPath
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      true,
		"order":       order,
		"itemResults": outcomes,
	})
}

// enqueuePlacement writes the place-shipment outbox row inside the order's
// transaction. Content carries the task's own id so the worker can track
// attempts, which takes a second statement after LastInsertId.
func enqueuePlacement(tx *sql.Tx, orderID int64) error {
	res, err := tx.Exec(
		"INSERT INTO shipment_tasks (order_id, task_type, content, status, attempts) VALUES (?, ?, ?, ?, 0)",
		orderID, models.TaskPlaceShipment, "{}", models.TaskPending,
	)
	if err != nil {
		return err
	}

	taskID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	content, err := json.Marshal(models.PlaceShipmentTask{TaskID: taskID, OrderID: orderID})
	if err != nil {
		return err
	}

	_, err = tx.Exec("UPDATE shipment_tasks SET content = ? WHERE id = ?", content, taskID)
	return err
}

// orderColumns is the shared scan list for order reads.
const orderColumns = `
	id, order_no, status, subtotal, tax, discount, total_amount, currency,
	shipping_name, shipping_phone, shipping_email, shipping_address, shipping_zip,
	shipping_city_id, shipping_state_id, shipping_country_id,
	billing_name, billing_phone, billing_email, billing_address, billing_zip,
	billing_city_id, billing_state_id, billing_country_id,
	payment_id, barcode, shipping_api_result, created_at, updated_at`

func scanOrder(scan func(dest ...interface{}) error) (*models.Order, error) {
	var o models.Order
	err := scan(
		&o.ID, &o.OrderNo, &o.Status, &o.Subtotal, &o.Tax, &o.Discount, &o.TotalAmount, &o.Currency,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingEmail, &o.ShippingAddress, &o.ShippingZip,
		&o.ShippingCityID, &o.ShippingStateID, &o.ShippingCountryID,
		&o.BillingName, &o.BillingPhone, &o.BillingEmail, &o.BillingAddress, &o.BillingZip,
		&o.BillingCityID, &o.BillingStateID, &o.BillingCountryID,
		&o.PaymentID, &o.Barcode, &o.ShippingAPIResult, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders is the handler for GET /api/order (admin panel).
// Returns all not-deleted orders, newest first.
func (h *Handlers) ListOrders(c *gin.Context) {
	rows, err := h.DB.Query(
		"SELECT "+orderColumns+" FROM orders WHERE deleted_at IS NULL ORDER BY created_at DESC",
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to scan order"})
			return
		}
		orders = append(orders, *o)
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "orders": orders})
}

// GetOrderDetails is the handler for GET /api/order/:id (admin panel).
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	orderID := c.Param("id")

	row := h.DB.QueryRow(
		"SELECT "+orderColumns+" FROM orders WHERE id = ? AND deleted_at IS NULL", orderID,
	)
	o, err := scanOrder(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch order"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, order_id, dropshipper_product_id, dropshipper_product_variant_id,
		       supplier_product_id, supplier_product_variant_id,
		       dropshipper_id, supplier_id, quantity, price, total, created_at
		FROM order_items WHERE order_id = ?`, o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.DropshipperProductID, &it.DropshipperProductVariantID,
			&it.SupplierProductID, &it.SupplierProductVariantID,
			&it.DropshipperID, &it.SupplierID, &it.Quantity, &it.Price, &it.Total, &it.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to scan order item"})
			return
		}
		items = append(items, it)
	}
	o.Items = items

	c.JSON(http.StatusOK, gin.H{"status": true, "order": o})
}
