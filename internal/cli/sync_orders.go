package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/a94tkh14/magazzino/internal/audit"
	"github.com/a94tkh14/magazzino/internal/config"
	"github.com/a94tkh14/magazzino/internal/database"
	"github.com/a94tkh14/magazzino/internal/database/orders"
	"github.com/a94tkh14/magazzino/internal/ingest"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

// SyncOrdersCommand runs a one-shot order download from the shop
type SyncOrdersCommand struct {
	DatabasePath string
	CacheDir     string
	Strategy     string
	Limit        int
	DaysBack     int
}

// NewSyncOrdersCommand creates a new SyncOrdersCommand
func NewSyncOrdersCommand() *SyncOrdersCommand {
	return &SyncOrdersCommand{}
}

// ParseFlags parses command line flags
func (cmd *SyncOrdersCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync-orders", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.CacheDir, "cache-dir", "", "Order cache directory (defaults to <db dir>/order-cache)")
	fs.StringVar(&cmd.Strategy, "strategy", "partitioned", "Download strategy: partitioned or flat")
	fs.IntVar(&cmd.Limit, "limit", 0, "Orders per page (0 = strategy default)")
	fs.IntVar(&cmd.DaysBack, "days-back", 0, "Only fetch orders created in the last N days (0 = all)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync-orders [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Download all orders from the configured Shopify shop into the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Credentials are read from the settings database or from the\n")
		fmt.Fprintf(os.Stderr, "SHOPIFY_SHOP_DOMAIN / SHOPIFY_ACCESS_TOKEN environment variables.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync-orders\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync-orders -strategy flat -days-back 30\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the sync command
func (cmd *SyncOrdersCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	cacheDir := cmd.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(filepath.Dir(cmd.DatabasePath), "order-cache")
	}
	payloadStore, err := payloadstore.New(cacheDir, payloadstore.Options{})
	if err != nil {
		return fmt.Errorf("failed to initialize order cache: %w", err)
	}

	settingsStore := settingsstore.New(db)
	ordersRepo := orders.NewRepository(db.DB)
	auditService := audit.NewService(db.DB)

	runner := ingest.NewRunner(
		settingsStore,
		shopify.NewClient(),
		ordersRepo,
		payloadStore,
		auditService,
		cmd.Limit,
		cmd.DaysBack,
	)

	// Ctrl-C aborts the run and leaves the stored collection untouched.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Printf("Syncing orders (strategy: %s)...\n", cmd.Strategy)

	count, err := runner.RunBlocking(ctx, cmd.Strategy)
	if errors.Is(err, ingest.ErrAborted) {
		fmt.Println("Sync cancelled, previous order collection left untouched")
		return nil
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("Done. Downloaded %d orders.\n", count)
	return nil
}
