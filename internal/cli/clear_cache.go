package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/a94tkh14/magazzino/internal/config"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
)

// ClearCacheCommand removes the locally cached order payload
type ClearCacheCommand struct {
	DatabasePath string
	CacheDir     string
}

// NewClearCacheCommand creates a new ClearCacheCommand
func NewClearCacheCommand() *ClearCacheCommand {
	return &ClearCacheCommand{}
}

// ParseFlags parses command line flags
func (cmd *ClearCacheCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("clear-cache", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.StringVar(&cmd.CacheDir, "cache-dir", "", "Order cache directory (defaults to <db dir>/order-cache)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s clear-cache [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete the cached order payload, including all chunk files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the clear-cache command
func (cmd *ClearCacheCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	cacheDir := cmd.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(filepath.Dir(absDBPath), "order-cache")
	}

	store, err := payloadstore.New(cacheDir, payloadstore.Options{})
	if err != nil {
		return fmt.Errorf("failed to open order cache: %w", err)
	}

	if err := store.Clear(payloadstore.DefaultKey); err != nil {
		return fmt.Errorf("failed to clear order cache: %w", err)
	}

	fmt.Printf("Order cache cleared (%s)\n", cacheDir)
	return nil
}
