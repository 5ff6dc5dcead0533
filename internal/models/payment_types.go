package models

import "time"

// Payment is the model for the 'payments' table. Orders reference a
// payment by id; the order flow only checks existence.
type Payment struct {
	ID            int64     `json:"id" db:"id"`
	Method        string    `json:"method" db:"method"`
	TransactionID *string   `json:"transactionId,omitempty" db:"transaction_id"`
	Amount        float64   `json:"amount" db:"amount"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
