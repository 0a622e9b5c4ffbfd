// Package scheduler runs periodic order syncs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/a94tkh14/magazzino/internal/ingest"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/tasks"
)

// OrderSyncScheduler manages periodic Shopify order ingestion
type OrderSyncScheduler struct {
	settingsStore *settingsstore.SettingsStore
	runner        *ingest.Runner
	tasks         *tasks.Client

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	cancelFunc context.CancelFunc
}

// NewOrderSyncScheduler creates a new scheduler instance. taskClient may be
// nil; cache cleanup is then skipped after scheduled runs.
func NewOrderSyncScheduler(settingsStore *settingsstore.SettingsStore, runner *ingest.Runner, taskClient *tasks.Client) *OrderSyncScheduler {
	return &OrderSyncScheduler{
		settingsStore: settingsStore,
		runner:        runner,
		tasks:         taskClient,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if order sync is enabled
func (s *OrderSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.settingsStore.GetOrderSyncEnabled() {
		log.Printf("Order sync scheduler: disabled")
		return nil
	}

	if !s.settingsStore.HasShopCredentials() {
		log.Printf("Order sync scheduler: shop credentials not configured, skipping")
		return nil
	}

	schedule := s.settingsStore.GetOrderSyncSchedule()
	if err := settingsstore.ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := settingsstore.GetNextRunTime(schedule)
	log.Printf("Order sync scheduler: started with schedule '%s' (%s). Next run: %v",
		schedule, settingsstore.GetCronDescription(schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *OrderSyncScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	c := s.cron
	s.mu.Unlock()

	// Wait for running jobs without holding the lock: a job's cleanup
	// needs it to finish.
	<-c.Stop().Done()

	log.Printf("Order sync scheduler: stopped")
}

// Reschedule updates the schedule (call after settings change)
func (s *OrderSyncScheduler) Reschedule() error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}

	return s.Start(context.Background())
}

// IsRunning returns whether the scheduler is active
func (s *OrderSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sync will occur
func (s *OrderSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runSync performs one scheduled ingestion run
func (s *OrderSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		log.Printf("Order sync: skipped (already syncing)")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	if !s.settingsStore.GetOrderSyncEnabled() {
		log.Printf("Order sync: skipped (disabled)")
		return
	}

	log.Printf("Order sync: starting scheduled run")
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	count, err := s.runner.RunBlocking(ctx, "")
	switch {
	case err == nil:
		log.Printf("Order sync: scheduled run finished with %d orders in %v",
			count, time.Since(startTime).Round(time.Millisecond))
	case errors.Is(err, ingest.ErrAlreadyRunning):
		log.Printf("Order sync: skipped (a manual run is in progress)")
	default:
		log.Printf("Order sync: scheduled run failed: %v", err)
	}

	s.enqueueCacheCleanup()
}

// enqueueCacheCleanup queues a TTL eviction pass after every scheduled run
// so a shop that stops syncing does not keep a stale payload around forever.
func (s *OrderSyncScheduler) enqueueCacheCleanup() {
	if s.tasks == nil {
		return
	}

	task := tasks.CleanupOrderCacheTask{
		Key:        payloadstore.DefaultKey,
		MaxAgeDays: s.settingsStore.GetOrderCacheTTLDays(),
	}
	if _, err := s.tasks.Add(task).Save(); err != nil {
		log.Printf("Order sync: failed to enqueue cache cleanup: %v", err)
	}
}
