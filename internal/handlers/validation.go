package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// ItemInput is one order line as submitted by the client in the
// JSON-encoded "items" form field.
type ItemInput struct {
	DropshipperProductID        int64   `json:"dropshipperProductId"`
	DropshipperProductVariantID int64   `json:"dropshipperProductVariantId"`
	Quantity                    int     `json:"quantity"`
	Price                       float64 `json:"price"`
	Total                       float64 `json:"total"`
}

var errItemsInvalid = errors.New("items are not valid or empty")

// parseItems decodes the raw items field. Anything other than a non-empty
// JSON array of item objects is rejected.
func parseItems(raw string) ([]ItemInput, error) {
	if raw == "" {
		return nil, errItemsInvalid
	}

	var items []ItemInput
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, errItemsInvalid
	}
	if len(items) == 0 {
		return nil, errItemsInvalid
	}

	return items, nil
}

// verifyTotals recomputes subtotal + tax - discount and compares it with
// the client-submitted total, tolerating a one-cent rounding difference.
// The client's figure is never trusted verbatim.
func verifyTotals(subtotal, tax, discount, total float64) bool {
	expected := decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(tax)).
		Sub(decimal.NewFromFloat(discount))

	diff := expected.Sub(decimal.NewFromFloat(total)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(0.01))
}

// lineTotal recomputes one item's total from quantity and unit price.
func lineTotal(quantity int, price float64) float64 {
	total, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Float64()
	return total
}

// paymentExists checks the referenced payment record.
func (h *Handlers) paymentExists(paymentID int64) (bool, error) {
	var id int64
	err := h.DB.QueryRow("SELECT id FROM payments WHERE id = ?", paymentID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// locationChainValid confirms city ∈ state ∈ country.
func (h *Handlers) locationChainValid(cityID, stateID, countryID int64) (bool, error) {
	var count int
	err := h.DB.QueryRow(`
		SELECT COUNT(*)
		FROM cities ci
		JOIN states s ON ci.state_id = s.id
		WHERE ci.id = ? AND s.id = ? AND s.country_id = ?`,
		cityID, stateID, countryID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
