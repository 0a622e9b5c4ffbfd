package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/a94tkh14/magazzino/internal/ingest"
)

// SyncOrdersTask performs a full order ingestion run in the background.
type SyncOrdersTask struct {
	Strategy string `json:"strategy"`
}

// Config returns the queue configuration for queued order syncs.
func (t SyncOrdersTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sync_orders",
		MaxAttempts: 2,
		Backoff:     10 * time.Minute,
		Timeout:     45 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   48 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SyncOrdersProcessor creates a processor function for SyncOrdersTask.
func SyncOrdersProcessor(runner *ingest.Runner) backlite.QueueProcessor[SyncOrdersTask] {
	return func(ctx context.Context, task SyncOrdersTask) error {
		if runner == nil {
			return fmt.Errorf("ingest runner not configured")
		}

		count, err := runner.RunBlocking(ctx, task.Strategy)
		switch {
		case err == nil:
			log.Printf("[TASK] Order sync completed with %d orders", count)
			return nil
		case errors.Is(err, ingest.ErrAlreadyRunning):
			// Another run holds the lock; let the queue retry later
			return err
		case errors.Is(err, ingest.ErrAborted):
			log.Printf("[TASK] Order sync cancelled after %d orders", count)
			return nil
		default:
			return fmt.Errorf("queued order sync: %w", err)
		}
	}
}

// NewSyncOrdersQueue creates a backlite queue for order sync tasks.
func NewSyncOrdersQueue(runner *ingest.Runner) backlite.Queue {
	return backlite.NewQueue(SyncOrdersProcessor(runner))
}
