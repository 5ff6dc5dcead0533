package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderSuccess(t *testing.T) {
	var gotToken string
	var gotBody OrderPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, createOrderPath, r.URL.Path)
		gotToken = r.Header.Get("access-token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": true,
			"data":   map[string]interface{}{"awb_number": "PX987"},
		})
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "secret-token")
	payload := BuildOrderPayload(testOrder(), []PayloadLine{
		{Item: models.OrderItem{Quantity: 1, Total: 99}, Product: models.SupplierProduct{Name: "Mug", Weight: 0.4}},
	})

	res := g.PlaceOrder(context.Background(), payload)

	assert.True(t, res.Status)
	assert.Equal(t, "secret-token", gotToken)
	assert.Equal(t, payload, res.Payload)
	assert.Equal(t, "99.00", gotBody.OrderAmount)

	// The raw carrier response is carried so callers can persist it as
	// shipping_api_result.
	raw, err := json.Marshal(res.Result)
	require.NoError(t, err)
	awb, ok := ExtractAWB(raw)
	assert.True(t, ok)
	assert.Equal(t, "PX987", awb)
}

func TestPlaceOrderCarrierReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "pincode not serviceable",
		})
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "tok")
	res := g.PlaceOrder(context.Background(), BuildOrderPayload(testOrder(), nil))

	assert.False(t, res.Status)
	assert.Equal(t, "pincode not serviceable", res.Message)
	assert.NotNil(t, res.Result)
}

func TestPlaceOrderNetworkErrorIsTagged(t *testing.T) {
	// Point at a closed server: the transport error must come back as a
	// failed Result, never as a Go error or panic.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	g := NewGateway(srv.URL, "tok")
	res := g.PlaceOrder(context.Background(), BuildOrderPayload(testOrder(), nil))

	assert.False(t, res.Status)
	assert.Contains(t, res.Message, "carrier request failed")
}

func TestPlaceOrderMalformedResponseIsTagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "tok")
	res := g.PlaceOrder(context.Background(), BuildOrderPayload(testOrder(), nil))

	assert.False(t, res.Status)
	assert.Contains(t, res.Message, "failed to decode carrier response")
}

func TestCancelPassesThroughCarrierResult(t *testing.T) {
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, cancelOrderPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "cancellation scheduled",
		})
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "tok")
	res := g.Cancel(context.Background(), "PX987")

	assert.True(t, res.Status)
	assert.Equal(t, "cancellation scheduled", res.Message)
	assert.Equal(t, map[string]string{"awb": "PX987"}, gotBody)
}

func TestCancelCarrierRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "shipment already in transit",
		})
	}))
	defer srv.Close()

	g := NewGateway(srv.URL, "tok")
	res := g.Cancel(context.Background(), "PX987")

	assert.False(t, res.Status)
	assert.Equal(t, "shipment already in transit", res.Message)
}
