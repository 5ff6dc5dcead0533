package handlers

import (
	"database/sql"
	"net/http"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/dropmart/dropmart-golang/internal/shipping"
	"github.com/gin-gonic/gin"
)

//
// --- Shipment Handlers (Admin) ---
//

// PlaceShipment is the handler for POST /api/order/:id/place-shipment.
// It does not call the carrier inline; it re-enqueues a placement task for
// the worker, e.g. after an earlier placement exhausted its retries.
func (h *Handlers) PlaceShipment(c *gin.Context) {
	orderID := c.Param("id")

	var id int64
	var status string
	var apiResult sql.NullString
	err := h.DB.QueryRow(
		"SELECT id, status, shipping_api_result FROM orders WHERE id = ? AND deleted_at IS NULL", orderID,
	).Scan(&id, &status, &apiResult)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch order"})
		return
	}

	if status != models.OrderStatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "Order is not in 'pending' status"})
		return
	}
	if apiResult.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "Shipment already placed for this order"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	if err := enqueuePlacement(tx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to enqueue shipment placement"})
		return
	}
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to commit transaction"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": true, "message": "Shipment placement queued"})
}

// CancelShipment is the handler for POST /api/order/:id/cancel-shipment.
//
// Cancellation requires an AWB number from a prior successful placement;
// without one no remote call is made. Carrier-reported status/message are
// passed through verbatim.
func (h *Handlers) CancelShipment(c *gin.Context) {
	orderID := c.Param("id")

	var id int64
	var apiResult sql.NullString
	err := h.DB.QueryRow(
		"SELECT id, shipping_api_result FROM orders WHERE id = ? AND deleted_at IS NULL", orderID,
	).Scan(&id, &apiResult)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch order"})
		return
	}

	awb := ""
	if apiResult.Valid {
		awb, _ = shipping.ExtractAWB([]byte(apiResult.String))
	}
	if awb == "" {
		c.JSON(http.StatusNotFound, gin.H{"status": false, "message": "no AWB number found"})
		return
	}

	res := h.Carrier.Cancel(c.Request.Context(), awb)
	if !res.Status {
		c.JSON(http.StatusBadGateway, gin.H{"status": false, "message": res.Message, "result": res.Result})
		return
	}

	// The gateway does not touch order state; the handler owns the status
	// transition on confirmed cancellation.
	if _, err := h.DB.Exec(
		"UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?",
		models.OrderStatusCancelled, id,
	); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Shipment cancelled but failed to update order status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "message": res.Message, "result": res.Result})
}
