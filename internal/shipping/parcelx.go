package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Carrier endpoints, relative to the configured base URL.
const (
	createOrderPath = "/api/v3/order/create_order"
	cancelOrderPath = "/api/v1/order/cancel_order"
)

// Result is the tagged outcome of a carrier call. The gateway never lets
// carrier failures escape as Go errors: network errors, parse errors and
// carrier-reported failures all land here so callers decide policy
// (retry, ignore, surface).
type Result struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Result  map[string]interface{} `json:"result,omitempty"`
	// Payload echoes what was sent, for audit/debug alongside the stored
	// carrier response.
	Payload *OrderPayload `json:"payload,omitempty"`
}

// Gateway talks to the ParcelX carrier API.
type Gateway struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

func NewGateway(baseURL, accessToken string) *Gateway {
	return &Gateway{
		baseURL:     baseURL,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// PlaceOrder sends the order-creation payload to the carrier. The caller
// is expected to persist the raw result onto the order as
// shipping_api_result when Status is true.
func (g *Gateway) PlaceOrder(ctx context.Context, payload *OrderPayload) Result {
	raw, res := g.post(ctx, createOrderPath, payload)
	res.Payload = payload
	if !res.Status {
		return res
	}

	// Carrier reports success/failure in a body-level "status" boolean.
	status, _ := raw["status"].(bool)
	if !status {
		msg, _ := raw["message"].(string)
		if msg == "" {
			msg = "carrier rejected the order"
		}
		return Result{Status: false, Message: msg, Result: raw, Payload: payload}
	}

	return Result{Status: true, Message: "shipment placed", Result: raw, Payload: payload}
}

// Cancel asks the carrier to cancel the shipment identified by the AWB
// number. Carrier-reported status/message are passed through verbatim.
func (g *Gateway) Cancel(ctx context.Context, awb string) Result {
	raw, res := g.post(ctx, cancelOrderPath, map[string]string{"awb": awb})
	if !res.Status {
		return res
	}

	status, _ := raw["status"].(bool)
	msg, _ := raw["message"].(string)
	return Result{Status: status, Message: msg, Result: raw}
}

// post performs the signed POST and decodes the JSON body. Any transport
// or decode failure is converted into a failed Result.
func (g *Gateway) post(ctx context.Context, path string, body interface{}) (map[string]interface{}, Result) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, Result{Status: false, Message: fmt.Sprintf("failed to encode carrier payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, Result{Status: false, Message: fmt.Sprintf("failed to build carrier request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access-token", g.accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, Result{Status: false, Message: fmt.Sprintf("carrier request failed: %v", err)}
	}
	defer resp.Body.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, Result{Status: false, Message: fmt.Sprintf("failed to decode carrier response: %v", err)}
	}

	return raw, Result{Status: true}
}

// ExtractAWB pulls the AWB number out of a stored shipping_api_result
// blob. The blob must be a JSON object with a data.awb_number string;
// anything else means the shipment was never placed and cancellation is
// impossible.
func ExtractAWB(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var blob map[string]interface{}
	if err := json.Unmarshal(raw, &blob); err != nil {
		return "", false
	}

	data, ok := blob["data"].(map[string]interface{})
	if !ok {
		return "", false
	}

	awb, ok := data["awb_number"].(string)
	if !ok || awb == "" {
		return "", false
	}

	return awb, true
}
