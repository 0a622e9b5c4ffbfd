// Package http wires the gin HTTP surface: the sync-orders proxy, runner
// control, orders/products APIs, settings, and cache management.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/audit"
	"github.com/a94tkh14/magazzino/internal/database"
	"github.com/a94tkh14/magazzino/internal/database/orders"
	"github.com/a94tkh14/magazzino/internal/database/products"
	"github.com/a94tkh14/magazzino/internal/ingest"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/scheduler"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/shopify"
	"github.com/a94tkh14/magazzino/internal/tasks"
)

// RouterConfig carries every dependency the route handlers need.
type RouterConfig struct {
	Database      *database.Database
	OrdersRepo    *orders.Repository
	ProductsRepo  *products.Repository
	SettingsStore *settingsstore.SettingsStore
	PayloadStore  *payloadstore.Store
	ShopifyClient *shopify.Client
	Runner        *ingest.Runner
	Scheduler     *scheduler.OrderSyncScheduler
	AuditService  *audit.Service
	TaskClient    *tasks.Client
	Version       string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Version)
	proxy := NewSyncOrdersProxyController(cfg.ShopifyClient)
	sync := NewSyncController(cfg.Runner)
	ordersController := NewOrdersController(cfg.OrdersRepo)
	settingsController := NewShopifySettingsController(cfg.SettingsStore, cfg.Scheduler)
	cacheController := NewCacheController(cfg.PayloadStore, cfg.SettingsStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Serverless-style proxy: one upstream page per call, caller-driven
	// pagination. CORS is handled per-route so the endpoint stays usable
	// from a browser frontend served elsewhere.
	router.POST("/sync-orders", corsMiddleware(), proxy.SyncOrders)
	router.OPTIONS("/sync-orders", corsMiddleware(), proxy.Preflight)

	// Runner control
	router.POST("/api/sync/orders/start", sync.Start)
	router.GET("/api/sync/orders/status", sync.Status)
	router.POST("/api/sync/orders/cancel", sync.Cancel)

	// Orders API
	router.GET("/api/orders", ordersController.GetAllOrders)
	router.GET("/api/orders/stats", ordersController.GetOrderStats)
	router.GET("/api/orders/:id", ordersController.GetOrder)

	// Product catalog
	if cfg.ProductsRepo != nil {
		productsController := NewProductsController(cfg.ProductsRepo)
		router.GET("/api/products", productsController.GetAllProducts)
		router.POST("/api/products", productsController.CreateProduct)
		router.GET("/api/products/:id", productsController.GetProduct)
		router.PATCH("/api/products/:id", productsController.UpdateProduct)
		router.DELETE("/api/products/:id", productsController.DeleteProduct)
		router.POST("/api/products/:id/stock", productsController.AddStock)
	}

	// Task queue producers
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, cfg.SettingsStore)
		router.POST("/api/tasks/:type/run", tasksController.RunTask)
	}

	// Audit trail
	if cfg.AuditService != nil {
		auditController := NewAuditController(cfg.AuditService)
		router.GET("/api/audit", auditController.ListEvents)
	}

	// Shopify settings
	router.GET("/settings/shopify", settingsController.GetSettings)
	router.POST("/settings/shopify", settingsController.SaveSettings)
	router.POST("/settings/shopify/clear", settingsController.ClearSettings)

	// Payload cache management
	router.POST("/api/cache/clear", cacheController.Clear)
	router.POST("/api/cache/cleanup", cacheController.Cleanup)

	return router
}

// corsMiddleware applies the permissive CORS headers the proxy contract
// requires on every response.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Next()
	}
}
