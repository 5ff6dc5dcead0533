package handlers

import (
	"database/sql"

	"github.com/dropmart/dropmart-golang/internal/barcode"
	"github.com/dropmart/dropmart-golang/internal/config"
	"github.com/dropmart/dropmart-golang/internal/shipping"
	"github.com/dropmart/dropmart-golang/internal/shopify"
)

// Handlers holds all dependencies for the HTTP handlers.
type Handlers struct {
	DB      *sql.DB
	Cfg     *config.Config
	Carrier *shipping.Gateway
	Barcode *barcode.Generator

	// NewShopifyClient builds a client for one connected store. Swappable
	// so tests can point pushes at a local server.
	NewShopifyClient func(domain, accessToken string) *shopify.Client
}

func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		DB:      db,
		Cfg:     cfg,
		Carrier: shipping.NewGateway(cfg.ParcelXBaseURL, cfg.ParcelXAccessToken),
		Barcode: &barcode.Generator{UploadRoot: cfg.UploadRoot, BaseURL: cfg.BaseURL},
		NewShopifyClient: func(domain, accessToken string) *shopify.Client {
			return shopify.NewClient(domain, accessToken, cfg.ShopifyAPIVersion)
		},
	}
}
