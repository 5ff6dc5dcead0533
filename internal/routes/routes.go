package routes

import (
	"net/http"

	"github.com/dropmart/dropmart-golang/internal/handlers"
	"github.com/dropmart/dropmart-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the admin/supplier/dropshipper panels to call the
// API from the browser.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost:5173")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, x-admin-id, x-admin-role, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	// Generated artifacts (barcodes) are served from the upload root.
	router.Static("/uploads", h.Cfg.UploadRoot)

	api := router.Group("/api")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Order creation (storefront-facing) ---
		api.POST("/order", h.CreateOrder)

		// --- Admin panel: order listing & shipment control ---
		admin := api.Group("/")
		admin.Use(middleware.AdminHeaderMiddleware(h.DB))
		{
			admin.GET("/order", h.ListOrders)
			admin.GET("/order/:id", h.GetOrderDetails)
			admin.POST("/order/:id/place-shipment", h.PlaceShipment)
			admin.POST("/order/:id/cancel-shipment", h.CancelShipment)
		}

		// --- Dropshipper: marketplace integration ---
		marketplace := api.Group("/marketplace")
		marketplace.Use(middleware.AuthMiddleware(h.DB, []byte(h.Cfg.JWTSecret)))
		marketplace.Use(middleware.DropshipperMiddleware())
		{
			marketplace.POST("/push", h.PushProduct)
			marketplace.GET("/orders", h.RecentStoreOrders)
		}
	}

	return router
}
