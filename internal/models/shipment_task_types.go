package models

import "database/sql"

// TaskStatus follows the outbox convention: rows start pending, the relay
// marks them completed once published, the worker marks them failed when
// retries are exhausted.
type TaskStatus int

const (
	TaskPending   TaskStatus = 1
	TaskCompleted TaskStatus = 2
	TaskFailed    TaskStatus = 3
)

const TaskPlaceShipment = "place_shipment"

// ShipmentTask is the model for the 'shipment_tasks' outbox table. A row
// is written in the same transaction as the order it refers to, so a
// crash between commit and publish can never lose a placement.
type ShipmentTask struct {
	ID        int64        `db:"id"`
	OrderID   int64        `db:"order_id"`
	TaskType  string       `db:"task_type"`
	Content   []byte       `db:"content"`
	Status    TaskStatus   `db:"status"`
	Attempts  int          `db:"attempts"`
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

// PlaceShipmentTask is the queue message content for a placement job.
type PlaceShipmentTask struct {
	TaskID  int64 `json:"taskId"`
	OrderID int64 `json:"orderId"`
}
