package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CacheCleaner evicts payloads older than the given TTL.
type CacheCleaner interface {
	Cleanup(key string, maxAgeDays int) (bool, error)
}

// CleanupOrderCacheTask evicts the local order payload cache when it has
// not been refreshed within the TTL.
type CleanupOrderCacheTask struct {
	Key        string `json:"key"`
	MaxAgeDays int    `json:"max_age_days"`
}

// Config returns the queue configuration for cache cleanup tasks.
func (t CleanupOrderCacheTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_order_cache",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrderCacheProcessor creates a processor function for CleanupOrderCacheTask.
func CleanupOrderCacheProcessor(cleaner CacheCleaner) backlite.QueueProcessor[CleanupOrderCacheTask] {
	return func(ctx context.Context, task CleanupOrderCacheTask) error {
		if cleaner == nil {
			return fmt.Errorf("cache cleaner not configured")
		}

		maxAgeDays := task.MaxAgeDays
		if maxAgeDays <= 0 {
			maxAgeDays = 7
		}

		evicted, err := cleaner.Cleanup(task.Key, maxAgeDays)
		if err != nil {
			return fmt.Errorf("cleanup order cache: %w", err)
		}

		if evicted {
			log.Printf("[TASK] Evicted order cache %q older than %d days", task.Key, maxAgeDays)
		}
		return nil
	}
}

// NewCleanupOrderCacheQueue creates a backlite queue for cache cleanup tasks.
func NewCleanupOrderCacheQueue(cleaner CacheCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupOrderCacheProcessor(cleaner))
}
