package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to one store's Shopify Admin GraphQL API.
type Client struct {
	Domain      string // e.g. my-shop.myshopify.com
	AccessToken string
	APIVersion  string

	// Endpoint overrides the URL built from Domain/APIVersion. Tests point
	// it at a local server.
	Endpoint string

	HTTPClient *http.Client
}

func NewClient(domain, accessToken, apiVersion string) *Client {
	return &Client{
		Domain:      domain,
		AccessToken: accessToken,
		APIVersion:  apiVersion,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// UserError is Shopify's field-level mutation error.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func (c *Client) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.Domain, c.APIVersion)
}

// Do executes one GraphQL request and unmarshals the "data" object into
// out. Transport and GraphQL-level errors come back as Go errors; mutation
// userErrors are part of out and are the caller's to interpret.
func (c *Client) Do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request returned HTTP %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode graphql data: %w", err)
		}
	}
	return nil
}

const productCreateMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product { id }
    userErrors { field message }
  }
}`

// ProductCreateInput is the subset of Shopify's ProductInput we send.
type ProductCreateInput struct {
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
	Vendor          string `json:"vendor"`
	ProductType     string `json:"productType"`
	Handle          string `json:"handle"`
}

// ProductCreate creates the remote product and returns its id.
func (c *Client) ProductCreate(ctx context.Context, input ProductCreateInput) (string, []UserError, error) {
	var out struct {
		ProductCreate struct {
			Product struct {
				ID string `json:"id"`
			} `json:"product"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"productCreate"`
	}

	err := c.Do(ctx, productCreateMutation, map[string]interface{}{
		"input": input,
	}, &out)
	if err != nil {
		return "", nil, err
	}

	return out.ProductCreate.Product.ID, out.ProductCreate.UserErrors, nil
}

const variantsBulkCreateMutation = `
mutation productVariantsBulkCreate($productId: ID!, $strategy: ProductVariantsBulkCreateStrategy!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkCreate(productId: $productId, strategy: $strategy, variants: $variants) {
    productVariants { id }
    userErrors { field message }
  }
}`

// VariantInput is one variant to create on the remote product.
type VariantInput struct {
	Price         string                 `json:"price"`
	OptionValues  []map[string]string    `json:"optionValues,omitempty"`
	InventoryItem map[string]interface{} `json:"inventoryItem"`
}

// ProductVariantsBulkCreate creates the variants, removing the store's
// auto-created standalone variant.
func (c *Client) ProductVariantsBulkCreate(ctx context.Context, productID string, variants []VariantInput) ([]UserError, error) {
	var out struct {
		ProductVariantsBulkCreate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"productVariantsBulkCreate"`
	}

	err := c.Do(ctx, variantsBulkCreateMutation, map[string]interface{}{
		"productId": productID,
		"strategy":  "REMOVE_STANDALONE_VARIANT",
		"variants":  variants,
	}, &out)
	if err != nil {
		return nil, err
	}

	return out.ProductVariantsBulkCreate.UserErrors, nil
}

const productDeleteMutation = `
mutation productDelete($input: ProductDeleteInput!) {
  productDelete(input: $input) {
    deletedProductId
    userErrors { field message }
  }
}`

// ProductDelete removes a remote product. Used as the compensating action
// when variant creation fails after the product was already created.
func (c *Client) ProductDelete(ctx context.Context, productID string) error {
	var out struct {
		ProductDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"productDelete"`
	}

	err := c.Do(ctx, productDeleteMutation, map[string]interface{}{
		"input": map[string]string{"id": productID},
	}, &out)
	if err != nil {
		return err
	}
	if len(out.ProductDelete.UserErrors) > 0 {
		return fmt.Errorf("productDelete: %s", out.ProductDelete.UserErrors[0].Message)
	}
	return nil
}

const productCreateMediaMutation = `
mutation productCreateMedia($productId: ID!, $media: [CreateMediaInput!]!) {
  productCreateMedia(productId: $productId, media: $media) {
    media { alt }
    mediaUserErrors { field message }
  }
}`

// ProductCreateMedia attaches image URLs to a remote product. Errors are
// returned for logging; callers treat them as non-fatal.
func (c *Client) ProductCreateMedia(ctx context.Context, productID string, imageURLs []string) ([]UserError, error) {
	media := make([]map[string]string, 0, len(imageURLs))
	for _, url := range imageURLs {
		media = append(media, map[string]string{
			"originalSource":   url,
			"mediaContentType": "IMAGE",
		})
	}

	var out struct {
		ProductCreateMedia struct {
			MediaUserErrors []UserError `json:"mediaUserErrors"`
		} `json:"productCreateMedia"`
	}

	err := c.Do(ctx, productCreateMediaMutation, map[string]interface{}{
		"productId": productID,
		"media":     media,
	}, &out)
	if err != nil {
		return nil, err
	}

	return out.ProductCreateMedia.MediaUserErrors, nil
}

const recentOrdersQuery = `
query {
  orders(first: 10, reverse: true) {
    edges {
      node {
        id
        name
        createdAt
        displayFinancialStatus
        totalPriceSet { shopMoney { amount currencyCode } }
        customer { firstName lastName email phone }
        shippingAddress { address1 address2 city province country zip }
        lineItems(first: 50) {
          edges {
            node {
              title
              quantity
              sku
              originalUnitPriceSet { shopMoney { amount currencyCode } }
            }
          }
        }
      }
    }
  }
}`

// RecentOrders fetches the store's 10 most recent orders with nested line
// items, pricing sets, customer and address blocks. The raw data object is
// passed through to the caller unmodified.
func (c *Client) RecentOrders(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.Do(ctx, recentOrdersQuery, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
