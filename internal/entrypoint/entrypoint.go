// Package entrypoint wires the application together and runs the server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/audit"
	"github.com/a94tkh14/magazzino/internal/config"
	"github.com/a94tkh14/magazzino/internal/database"
	"github.com/a94tkh14/magazzino/internal/database/orders"
	"github.com/a94tkh14/magazzino/internal/database/products"
	http_controllers "github.com/a94tkh14/magazzino/internal/http"
	"github.com/a94tkh14/magazzino/internal/ingest"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/scheduler"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/shopify"
	"github.com/a94tkh14/magazzino/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler and queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Magazzino v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	settingsStore := settingsstore.New(db)
	ordersRepo := orders.NewRepository(db.DB)
	productsRepo := products.NewRepository(db.DB)
	auditService := audit.NewService(db.DB)

	cacheDir := cfg.OrderCache.Dir
	if cacheDir == "" {
		cacheDir = filepath.Join(filepath.Dir(cfg.Database.Path), "order-cache")
	}
	payloadStore, err := payloadstore.New(cacheDir, payloadstore.Options{
		ChunkThreshold: cfg.OrderCache.ChunkThreshold,
		MaxPayload:     cfg.OrderCache.MaxPayloadBytes,
		ChunkSize:      cfg.OrderCache.ChunkSize,
	})
	if err != nil {
		log.Fatalf("Failed to initialize order cache: %v", err)
	}
	log.Printf("Order cache initialized at %s", cacheDir)

	payloadStore.Subscribe(func(key string) {
		log.Printf("Order cache: payload %q updated", key)
	})

	shopifyClient := shopify.NewClient()
	runner := ingest.NewRunner(
		settingsStore,
		shopifyClient,
		ordersRepo,
		payloadStore,
		auditService,
		cfg.Shopify.PageLimit,
		cfg.Shopify.DaysBack,
	)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupOrderCacheQueue(payloadStore),
			tasks.NewSyncOrdersQueue(runner),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Start the periodic sync scheduler
	syncScheduler := scheduler.NewOrderSyncScheduler(settingsStore, runner, taskClient)
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: order sync scheduler failed to start: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		OrdersRepo:    ordersRepo,
		ProductsRepo:  productsRepo,
		SettingsStore: settingsStore,
		PayloadStore:  payloadStore,
		ShopifyClient: shopifyClient,
		Runner:        runner,
		Scheduler:     syncScheduler,
		AuditService:  auditService,
		TaskClient:    taskClient,
		Version:       version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		syncScheduler.Stop()
		runner.Cancel()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
