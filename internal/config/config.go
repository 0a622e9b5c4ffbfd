package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Shopify
		OrderCache
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	// Shopify holds the process-level sync tuning knobs. Shop credentials
	// and the sync schedule live in settingsstore, which reads its own
	// environment overrides.
	Shopify struct {
		PageLimit int // per-call order limit for the partitioned walk
		DaysBack  int // "created after N days ago" floor; 0 = no floor
	}
	OrderCache struct {
		Dir             string
		MaxPayloadBytes int64 // overall quota for one cached collection
		ChunkThreshold  int64 // single-blob limit before sharding kicks in
		ChunkSize       int   // records per shard
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Shopify defaults
	v.SetDefault("shopify_page_limit", DefaultPageLimit)
	v.SetDefault("shopify_days_back", 0)

	// Order cache defaults
	v.SetDefault("order_cache_dir", "")
	v.SetDefault("order_cache_max_payload_bytes", int64(50*1024*1024))
	v.SetDefault("order_cache_chunk_threshold", int64(5*1024*1024))
	v.SetDefault("order_cache_chunk_size", 500)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Shopify: Shopify{
			PageLimit: v.GetInt("SHOPIFY_PAGE_LIMIT"),
			DaysBack:  v.GetInt("SHOPIFY_DAYS_BACK"),
		},
		OrderCache: OrderCache{
			Dir:             v.GetString("ORDER_CACHE_DIR"),
			MaxPayloadBytes: v.GetInt64("ORDER_CACHE_MAX_PAYLOAD_BYTES"),
			ChunkThreshold:  v.GetInt64("ORDER_CACHE_CHUNK_THRESHOLD"),
			ChunkSize:       v.GetInt("ORDER_CACHE_CHUNK_SIZE"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
