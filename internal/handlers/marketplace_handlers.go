package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"

	"github.com/dropmart/dropmart-golang/internal/models"
	"github.com/dropmart/dropmart-golang/internal/shopify"
	"github.com/gin-gonic/gin"
)

//
// --- Marketplace Push Handlers (Dropshipper-Only) ---
//

type pushVariantInput struct {
	VariantID int64   `json:"variantId" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gt=0"`
	Status    string  `json:"status"`
}

type pushProductInput struct {
	StoreID           int64              `json:"storeId" binding:"required,gt=0"`
	SupplierProductID int64              `json:"supplierProductId" binding:"required,gt=0"`
	Variants          []pushVariantInput `json:"variants" binding:"required,min=1,dive"`
}

// PushProduct is the handler for POST /api/marketplace/push.
//
// The remote side runs as a three-step push (product → variants → media)
// with a compensating product delete if variant creation fails. The local
// mapping row is written only after the remote push fully succeeds, so a
// mapping row always refers to a product that exists with its variants.
func (h *Handlers) PushProduct(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	dropshipperID := userID_raw.(int64)

	var input pushProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": err.Error()})
		return
	}

	// 1. --- Resolve the store (must belong to the caller) ---
	var store models.ShopifyStore
	err := h.DB.QueryRow(
		"SELECT id, dropshipper_id, domain, access_token FROM shopify_stores WHERE id = ? AND dropshipper_id = ?",
		input.StoreID, dropshipperID,
	).Scan(&store.ID, &store.DropshipperID, &store.Domain, &store.AccessToken)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch store"})
		return
	}

	// 2. --- Resolve the supplier product ---
	var product models.SupplierProduct
	var imagesJSON sql.NullString
	var vendor string
	err = h.DB.QueryRow(`
		SELECT sp.id, sp.name, sp.description, sp.category, sp.images, u.full_name
		FROM supplier_products sp
		JOIN users u ON sp.supplier_id = u.id
		WHERE sp.id = ?`, input.SupplierProductID,
	).Scan(&product.ID, &product.Name, &product.Description, &product.Category, &imagesJSON, &vendor)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch product"})
		return
	}
	if imagesJSON.Valid {
		if err := json.Unmarshal([]byte(imagesJSON.String), &product.Images); err != nil {
			log.Printf("WARNING: bad images JSON on supplier product %d: %v", product.ID, err)
		}
	}

	// 3. --- Filter variants against the supplier's catalog ---
	// Unresolvable variants are dropped, not fatal; pushing with zero
	// valid variants is.
	var variants []shopify.PushVariant
	for _, v := range input.Variants {
		var variantID int64
		err := h.DB.QueryRow(
			"SELECT id FROM supplier_product_variants WHERE id = ? AND supplier_product_id = ?",
			v.VariantID, input.SupplierProductID,
		).Scan(&variantID)
		if err == sql.ErrNoRows {
			log.Printf("WARNING: push for product %d: variant %d not in supplier catalog, skipping", product.ID, v.VariantID)
			continue
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to resolve variant"})
			return
		}

		status := v.Status
		if status == "" {
			status = "active"
		}
		variants = append(variants, shopify.PushVariant{VariantID: v.VariantID, Price: v.Price, Status: status})
	}
	if len(variants) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "No valid variants to push"})
		return
	}

	// 4. --- Remote push ---
	client := h.NewShopifyClient(store.Domain, store.AccessToken)
	res := shopify.PushProduct(c.Request.Context(), client, &product, vendor, variants)
	if !res.Status {
		c.JSON(res.HTTPStatus, gin.H{"status": false, "error": res.Message, "userErrors": res.UserErrors})
		return
	}

	// 5. --- Persist the local mapping (only after full remote success) ---
	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	mapRes, err := tx.Exec(
		"INSERT INTO marketplace_product_maps (supplier_product_id, store_id, remote_product_id, dropshipper_id, created_at) VALUES (?, ?, ?, ?, NOW())",
		input.SupplierProductID, store.ID, res.RemoteProductID, dropshipperID,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to save product mapping"})
		return
	}
	mapID, _ := mapRes.LastInsertId()

	for _, v := range variants {
		if _, err := tx.Exec(
			"INSERT INTO marketplace_product_map_variants (map_id, variant_id, price, status) VALUES (?, ?, ?, ?)",
			mapID, v.VariantID, v.Price, v.Status,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to save variant mapping"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to commit mapping"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          true,
		"mapId":           mapID,
		"remoteProductId": res.RemoteProductID,
	})
}

// RecentStoreOrders is the handler for GET /api/marketplace/orders.
// Passes through the store's 10 most recent Shopify orders.
func (h *Handlers) RecentStoreOrders(c *gin.Context) {
	userID_raw, _ := c.Get("userID")
	dropshipperID := userID_raw.(int64)

	storeID := c.Query("storeId")
	if storeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": false, "error": "storeId query parameter is required"})
		return
	}

	var store models.ShopifyStore
	err := h.DB.QueryRow(
		"SELECT id, domain, access_token FROM shopify_stores WHERE id = ? AND dropshipper_id = ?",
		storeID, dropshipperID,
	).Scan(&store.ID, &store.Domain, &store.AccessToken)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"status": false, "error": "Store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": false, "error": "Failed to fetch store"})
		return
	}

	client := h.NewShopifyClient(store.Domain, store.AccessToken)
	raw, err := client.RecentOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"status": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "data": json.RawMessage(raw)})
}
