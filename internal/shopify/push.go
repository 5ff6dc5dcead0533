package shopify

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// PushVariant is one client-submitted variant to push, already validated
// and resolved against the supplier's variant catalog.
type PushVariant struct {
	VariantID int64
	Price     float64
	Status    string
}

// PushResult is the tagged outcome of a push. Exceptions from the HTTP
// layer are caught here and reported with HTTPStatus 500; mutation
// userErrors with 400. No partial outcome exists: RemoteProductID is only
// set when both the product and its variants were created remotely.
type PushResult struct {
	Status          bool
	HTTPStatus      int
	Message         string
	RemoteProductID string
	UserErrors      []UserError
}

func pushFailure(httpStatus int, message string, userErrors []UserError) PushResult {
	return PushResult{Status: false, HTTPStatus: httpStatus, Message: message, UserErrors: userErrors}
}

// PushProduct performs the three-step remote push:
//
//  1. productCreate — must succeed before anything else is attempted;
//  2. productVariantsBulkCreate — any userErrors abort the push and fire a
//     best-effort compensating productDelete so the remote product is not
//     left orphaned;
//  3. productCreateMedia — best-effort, image errors are logged only.
//
// Persisting the local mapping row afterwards is the caller's job, and
// only on a successful result.
func PushProduct(ctx context.Context, client *Client, product *models.SupplierProduct, vendor string, variants []PushVariant) PushResult {
	// --- 1. Create the remote product ---
	productID, userErrors, err := client.ProductCreate(ctx, ProductCreateInput{
		Title:           product.Name,
		DescriptionHTML: product.Description,
		Vendor:          vendor,
		ProductType:     product.Category,
		Handle:          slug.Make(product.Name),
	})
	if err != nil {
		return pushFailure(http.StatusInternalServerError, err.Error(), nil)
	}
	if len(userErrors) > 0 {
		return pushFailure(http.StatusBadRequest, "productCreate failed: "+userErrors[0].Message, userErrors)
	}
	if productID == "" {
		return pushFailure(http.StatusBadRequest, "productCreate returned no product id", nil)
	}

	// --- 2. Create the variants ---
	inputs := make([]VariantInput, 0, len(variants))
	for _, v := range variants {
		inputs = append(inputs, VariantInput{
			Price: decimal.NewFromFloat(v.Price).StringFixed(2),
			InventoryItem: map[string]interface{}{
				"sku":     fmt.Sprintf("SKU-%d", v.VariantID),
				"tracked": true,
			},
		})
	}

	userErrors, err = client.ProductVariantsBulkCreate(ctx, productID, inputs)
	if err != nil {
		compensate(ctx, client, productID)
		return pushFailure(http.StatusInternalServerError, err.Error(), nil)
	}
	if len(userErrors) > 0 {
		compensate(ctx, client, productID)
		return pushFailure(http.StatusBadRequest, "variant creation failed: "+userErrors[0].Message, userErrors)
	}

	// --- 3. Attach media (best-effort) ---
	if len(product.Images) > 0 {
		mediaErrors, err := client.ProductCreateMedia(ctx, productID, product.Images)
		if err != nil {
			log.Printf("WARNING: media upload failed for remote product %s: %v", productID, err)
		}
		for _, me := range mediaErrors {
			log.Printf("WARNING: media user error for remote product %s: %s", productID, me.Message)
		}
	}

	return PushResult{
		Status:          true,
		HTTPStatus:      http.StatusOK,
		Message:         "product pushed",
		RemoteProductID: productID,
	}
}

// compensate deletes the remote product created in step 1 after a variant
// failure. Best-effort: a failed delete leaves a remote orphan, which is
// logged for manual cleanup.
func compensate(ctx context.Context, client *Client, productID string) {
	if err := client.ProductDelete(ctx, productID); err != nil {
		log.Printf("WARNING: failed to delete orphaned remote product %s: %v", productID, err)
	}
}
