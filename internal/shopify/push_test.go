package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphqlRequest captures one request the fake Shopify server received.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeShopify routes GraphQL mutations by name and records every call.
type fakeShopify struct {
	t        *testing.T
	requests []graphqlRequest
	handlers map[string]func(vars map[string]interface{}) interface{}
}

func (f *fakeShopify) serve(w http.ResponseWriter, r *http.Request) {
	require.Equal(f.t, "token-123", r.Header.Get("X-Shopify-Access-Token"))

	var req graphqlRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	f.requests = append(f.requests, req)

	for name, handler := range f.handlers {
		if strings.Contains(req.Query, name) {
			json.NewEncoder(w).Encode(map[string]interface{}{"data": handler(req.Variables)})
			return
		}
	}
	f.t.Fatalf("unexpected graphql query: %s", req.Query)
}

func (f *fakeShopify) calls(mutation string) []graphqlRequest {
	var res []graphqlRequest
	for _, r := range f.requests {
		if strings.Contains(r.Query, mutation) {
			res = append(res, r)
		}
	}
	return res
}

func newTestClient(t *testing.T, fake *fakeShopify) (*Client, func()) {
	fake.t = t
	srv := httptest.NewServer(http.HandlerFunc(fake.serve))
	c := NewClient("test-shop.myshopify.com", "token-123", "2024-10")
	c.Endpoint = srv.URL
	return c, srv.Close
}

func testProduct() *models.SupplierProduct {
	return &models.SupplierProduct{
		ID:          7,
		Name:        "Ceramic Mug",
		Description: "<p>A mug</p>",
		Category:    "kitchen",
		Images:      []string{"https://cdn.example.com/mug.jpg"},
	}
}

func productCreateOK(vars map[string]interface{}) interface{} {
	return map[string]interface{}{
		"productCreate": map[string]interface{}{
			"product":    map[string]interface{}{"id": "gid://shopify/Product/111"},
			"userErrors": []interface{}{},
		},
	}
}

func variantsOK(vars map[string]interface{}) interface{} {
	return map[string]interface{}{
		"productVariantsBulkCreate": map[string]interface{}{
			"productVariants": []interface{}{map[string]interface{}{"id": "gid://shopify/ProductVariant/222"}},
			"userErrors":      []interface{}{},
		},
	}
}

func mediaOK(vars map[string]interface{}) interface{} {
	return map[string]interface{}{
		"productCreateMedia": map[string]interface{}{
			"media":           []interface{}{},
			"mediaUserErrors": []interface{}{},
		},
	}
}

func TestPushProductHappyPath(t *testing.T) {
	fake := &fakeShopify{handlers: map[string]func(map[string]interface{}) interface{}{
		"productCreate(":             productCreateOK,
		"productVariantsBulkCreate(": variantsOK,
		"productCreateMedia(":        mediaOK,
	}}
	client, done := newTestClient(t, fake)
	defer done()

	res := PushProduct(context.Background(), client, testProduct(), "Acme Supplies", []PushVariant{
		{VariantID: 10, Price: 19.9, Status: "active"},
	})

	require.True(t, res.Status)
	assert.Equal(t, http.StatusOK, res.HTTPStatus)
	assert.Equal(t, "gid://shopify/Product/111", res.RemoteProductID)

	// productCreate input carries title/description/vendor/type and the
	// slugified handle.
	createCalls := fake.calls("productCreate(")
	require.Len(t, createCalls, 1)
	input := createCalls[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "Ceramic Mug", input["title"])
	assert.Equal(t, "ceramic-mug", input["handle"])
	assert.Equal(t, "Acme Supplies", input["vendor"])

	// Variant input: 2-decimal price, synthetic SKU, tracked inventory,
	// standalone-variant removal strategy.
	variantCalls := fake.calls("productVariantsBulkCreate(")
	require.Len(t, variantCalls, 1)
	assert.Equal(t, "REMOVE_STANDALONE_VARIANT", variantCalls[0].Variables["strategy"])
	variants := variantCalls[0].Variables["variants"].([]interface{})
	require.Len(t, variants, 1)
	v := variants[0].(map[string]interface{})
	assert.Equal(t, "19.90", v["price"])
	inv := v["inventoryItem"].(map[string]interface{})
	assert.Equal(t, "SKU-10", inv["sku"])
	assert.Equal(t, true, inv["tracked"])

	assert.Len(t, fake.calls("productCreateMedia("), 1)
	assert.Empty(t, fake.calls("productDelete("))
}

func TestPushProductCreateUserErrorsStopEverything(t *testing.T) {
	fake := &fakeShopify{handlers: map[string]func(map[string]interface{}) interface{}{
		"productCreate(": func(vars map[string]interface{}) interface{} {
			return map[string]interface{}{
				"productCreate": map[string]interface{}{
					"product":    nil,
					"userErrors": []interface{}{map[string]interface{}{"field": []string{"title"}, "message": "Title can't be blank"}},
				},
			}
		},
	}}
	client, done := newTestClient(t, fake)
	defer done()

	res := PushProduct(context.Background(), client, testProduct(), "Acme", nil)

	assert.False(t, res.Status)
	assert.Equal(t, http.StatusBadRequest, res.HTTPStatus)
	assert.Contains(t, res.Message, "Title can't be blank")

	// No variant, media, or compensation call may follow a failed create.
	assert.Len(t, fake.requests, 1)
}

func TestPushVariantErrorsFireCompensatingDelete(t *testing.T) {
	fake := &fakeShopify{handlers: map[string]func(map[string]interface{}) interface{}{
		"productCreate(": productCreateOK,
		"productVariantsBulkCreate(": func(vars map[string]interface{}) interface{} {
			return map[string]interface{}{
				"productVariantsBulkCreate": map[string]interface{}{
					"userErrors": []interface{}{map[string]interface{}{"field": []string{"price"}, "message": "Price is invalid"}},
				},
			}
		},
		"productDelete(": func(vars map[string]interface{}) interface{} {
			return map[string]interface{}{
				"productDelete": map[string]interface{}{
					"deletedProductId": "gid://shopify/Product/111",
					"userErrors":       []interface{}{},
				},
			}
		},
	}}
	client, done := newTestClient(t, fake)
	defer done()

	res := PushProduct(context.Background(), client, testProduct(), "Acme", []PushVariant{
		{VariantID: 10, Price: -1, Status: "active"},
	})

	assert.False(t, res.Status)
	assert.Equal(t, http.StatusBadRequest, res.HTTPStatus)
	assert.Contains(t, res.Message, "Price is invalid")
	assert.Empty(t, res.RemoteProductID)

	// The compensating delete targeted the product from step 1.
	deleteCalls := fake.calls("productDelete(")
	require.Len(t, deleteCalls, 1)
	input := deleteCalls[0].Variables["input"].(map[string]interface{})
	assert.Equal(t, "gid://shopify/Product/111", input["id"])

	// Media was never attempted.
	assert.Empty(t, fake.calls("productCreateMedia("))
}

func TestPushMediaErrorsAreNonFatal(t *testing.T) {
	fake := &fakeShopify{handlers: map[string]func(map[string]interface{}) interface{}{
		"productCreate(":             productCreateOK,
		"productVariantsBulkCreate(": variantsOK,
		"productCreateMedia(": func(vars map[string]interface{}) interface{} {
			return map[string]interface{}{
				"productCreateMedia": map[string]interface{}{
					"mediaUserErrors": []interface{}{map[string]interface{}{"message": "Image could not be downloaded"}},
				},
			}
		},
	}}
	client, done := newTestClient(t, fake)
	defer done()

	res := PushProduct(context.Background(), client, testProduct(), "Acme", []PushVariant{
		{VariantID: 10, Price: 5, Status: "active"},
	})

	assert.True(t, res.Status)
	assert.Equal(t, "gid://shopify/Product/111", res.RemoteProductID)
}

func TestPushTransportErrorIsCaught(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient("test-shop.myshopify.com", "token-123", "2024-10")
	client.Endpoint = srv.URL

	res := PushProduct(context.Background(), client, testProduct(), "Acme", nil)

	assert.False(t, res.Status)
	assert.Equal(t, http.StatusInternalServerError, res.HTTPStatus)
}

func TestRecentOrdersPassthrough(t *testing.T) {
	fake := &fakeShopify{handlers: map[string]func(map[string]interface{}) interface{}{
		"orders(first: 10": func(vars map[string]interface{}) interface{} {
			return map[string]interface{}{
				"orders": map[string]interface{}{
					"edges": []interface{}{
						map[string]interface{}{"node": map[string]interface{}{"id": "gid://shopify/Order/1", "name": "#1001"}},
					},
				},
			}
		},
	}}
	client, done := newTestClient(t, fake)
	defer done()

	raw, err := client.RecentOrders(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "#1001")
}
