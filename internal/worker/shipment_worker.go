package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/dropmart/dropmart-golang/internal/outbox"
	"github.com/dropmart/dropmart-golang/internal/queue"
	"github.com/dropmart/dropmart-golang/internal/shipping"
)

// CarrierGateway is the carrier side of the worker; satisfied by
// *shipping.Gateway.
type CarrierGateway interface {
	PlaceOrder(ctx context.Context, payload *shipping.OrderPayload) shipping.Result
}

// ShipmentWorker consumes place-shipment tasks, calls the carrier, and
// persists the outcome onto the order. Placement runs out-of-band so the
// order-creation HTTP response never waits on the carrier API, and a
// carrier failure never rolls back an already-persisted order.
type ShipmentWorker struct {
	db          *sql.DB
	consumer    *queue.Consumer
	repo        outbox.IRepo
	carrier     CarrierGateway
	queueName   string
	maxAttempts int
}

func NewShipmentWorker(db *sql.DB, consumer *queue.Consumer, repo outbox.IRepo, carrier CarrierGateway, queueName string) *ShipmentWorker {
	return &ShipmentWorker{
		db:          db,
		consumer:    consumer,
		repo:        repo,
		carrier:     carrier,
		queueName:   queueName,
		maxAttempts: 5,
	}
}

// Start blocks, consuming tasks until the underlying channel closes.
func (w *ShipmentWorker) Start() error {
	log.Printf("Starting shipment worker for queue: %s", w.queueName)
	return w.consumer.ConsumeQueue(w.queueName, w.handleMessage)
}

// handleMessage processes one task. Returning an error nacks the message
// back onto the queue; returning nil acks it.
func (w *ShipmentWorker) handleMessage(body []byte) error {
	var task models.PlaceShipmentTask
	if err := json.Unmarshal(body, &task); err != nil {
		// Poison message; drop it rather than requeue forever.
		log.Printf("WARNING: dropping malformed shipment task: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// 1. --- Load the order ---
	order, err := w.loadOrder(ctx, task.OrderID)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("WARNING: shipment task %d references missing order %d, dropping", task.TaskID, task.OrderID)
			return nil
		}
		return fmt.Errorf("failed to load order %d: %w", task.OrderID, err)
	}

	// Redelivery guard: an order that already moved past pending was
	// placed (or cancelled) by an earlier delivery of this task.
	if order.Status != models.OrderStatusPending {
		log.Printf("Order %d is %s, skipping placement", order.ID, order.Status)
		return nil
	}

	// 2. --- Load items with their supplier product/variant metrics ---
	lines, err := w.loadLines(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load items for order %d: %w", order.ID, err)
	}
	if len(lines) == 0 {
		log.Printf("WARNING: order %d has no items, nothing to place", order.ID)
		return nil
	}

	// 3. --- Place with the carrier ---
	payload := shipping.BuildOrderPayload(order, lines)
	res := w.carrier.PlaceOrder(ctx, payload)
	if !res.Status {
		return w.recordFailure(ctx, task, res.Message)
	}

	// 4. --- Persist the carrier result onto the order ---
	raw, err := json.Marshal(res.Result)
	if err != nil {
		return fmt.Errorf("failed to encode carrier result: %w", err)
	}

	_, err = w.db.ExecContext(ctx,
		"UPDATE orders SET shipping_api_result = ?, status = ?, updated_at = ? WHERE id = ?",
		string(raw), models.OrderStatusPlaced, time.Now(), order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to persist shipping result for order %d: %w", order.ID, err)
	}

	log.Printf("Shipment placed for order %d (%s)", order.ID, order.OrderNo)
	return nil
}

// recordFailure bumps the attempt counter; within the retry budget the
// message is nacked back onto the queue, past it the task is marked failed
// and dropped. The order itself stays pending and untouched either way.
func (w *ShipmentWorker) recordFailure(ctx context.Context, task models.PlaceShipmentTask, message string) error {
	attempts, err := w.repo.IncrementAttempts(ctx, task.TaskID)
	if err != nil {
		return fmt.Errorf("failed to record attempt for task %d: %w", task.TaskID, err)
	}

	if attempts >= w.maxAttempts {
		log.Printf("WARNING: giving up on shipment task %d after %d attempts: %s", task.TaskID, attempts, message)
		if err := w.repo.MarkFailed(ctx, task.TaskID); err != nil {
			return fmt.Errorf("failed to mark task %d failed: %w", task.TaskID, err)
		}
		return nil
	}

	return fmt.Errorf("carrier placement failed for order %d (attempt %d): %s", task.OrderID, attempts, message)
}

func (w *ShipmentWorker) loadOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var o models.Order
	err := w.db.QueryRowContext(ctx, `
		SELECT id, order_no, status,
		       shipping_name, shipping_phone, shipping_email, shipping_address, shipping_zip
		FROM orders
		WHERE id = ? AND deleted_at IS NULL`, orderID,
	).Scan(
		&o.ID, &o.OrderNo, &o.Status,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingEmail, &o.ShippingAddress, &o.ShippingZip,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (w *ShipmentWorker) loadLines(ctx context.Context, orderID int64) ([]shipping.PayloadLine, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT oi.quantity, oi.price, oi.total,
		       sp.name, sp.description, sp.category, sp.sku,
		       sp.pkg_width, sp.pkg_height, sp.pkg_length, sp.weight,
		       spv.sku
		FROM order_items oi
		JOIN supplier_products sp ON oi.supplier_product_id = sp.id
		JOIN supplier_product_variants spv ON oi.supplier_product_variant_id = spv.id
		WHERE oi.order_id = ?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []shipping.PayloadLine
	for rows.Next() {
		var l shipping.PayloadLine
		if err := rows.Scan(
			&l.Item.Quantity, &l.Item.Price, &l.Item.Total,
			&l.Product.Name, &l.Product.Description, &l.Product.Category, &l.Product.SKU,
			&l.Product.PkgWidth, &l.Product.PkgHeight, &l.Product.PkgLength, &l.Product.Weight,
			&l.Variant.SKU,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}
