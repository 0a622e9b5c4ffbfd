// Package ingest implements the bulk order ingestion engine: a sequential,
// deduplicating cursor walk over the order source, with progress reporting
// and cooperative cancellation. Two interchangeable strategies share the
// same dedup and retry machinery.
package ingest

import (
	"context"
	"time"

	"github.com/a94tkh14/magazzino/internal/entities"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

const (
	defaultPageDelay      = 500 * time.Millisecond
	defaultRetryDelay     = 2 * time.Second
	defaultPartitionDelay = time.Second

	maxPagesPerPartition = 200
	maxPagesPerRun       = 1000
)

// Progress is an in-memory snapshot of a running ingestion. It is mutated
// after every page fetch and discarded when the run ends; it is never
// persisted.
type Progress struct {
	CurrentPage      int    `json:"currentPage"`
	TotalPages       int    `json:"totalPages"` // 0 means unknown
	OrdersDownloaded int    `json:"ordersDownloaded"`
	CurrentStatus    string `json:"currentStatus"`
}

// ProgressFunc receives a progress snapshot after every successful page
// fetch. It must be cheap: the engine calls it inline and does not wait.
type ProgressFunc func(Progress)

// SourceClient produces one page of raw orders per call.
type SourceClient interface {
	FetchOrders(ctx context.Context, params shopify.FetchParams) (*shopify.OrdersPage, error)
}

// Strategy produces the full deduplicated order set from a source client.
type Strategy interface {
	Ingest(ctx context.Context, src SourceClient, fn ProgressFunc) ([]entities.Order, error)
}

// run holds the state shared by both strategies during one ingestion:
// the run-wide dedup set, the merged result, and the page counter.
type run struct {
	seen   map[int64]bool
	orders []entities.Order
	pages  int
	fn     ProgressFunc
}

func newRun(fn ProgressFunc) *run {
	return &run{seen: make(map[int64]bool), fn: fn}
}

// merge appends the page's previously unseen orders to the result.
// Duplicate IDs across partitions are expected and dropped silently;
// the first occurrence wins.
func (r *run) merge(raws []shopify.RawOrder) int {
	added := 0
	for _, raw := range raws {
		if r.seen[raw.ID] {
			continue
		}
		r.seen[raw.ID] = true
		r.orders = append(r.orders, shopify.NormalizeOrder(raw))
		added++
	}
	return added
}

func (r *run) report(status string) {
	if r.fn == nil {
		return
	}
	r.fn(Progress{
		CurrentPage:      r.pages,
		OrdersDownloaded: len(r.orders),
		CurrentStatus:    status,
	})
}

// fetchWithRetry fetches one page, retrying the exact same page once after
// a longer pause when the failure is transient (network, 429, 5xx).
// Auth and bad-request failures are returned immediately.
func fetchWithRetry(ctx context.Context, src SourceClient, params shopify.FetchParams, retryDelay time.Duration) (*shopify.OrdersPage, error) {
	page, err := src.FetchOrders(ctx, params)
	if err == nil {
		return page, nil
	}
	if !shopify.IsRetryable(err) {
		return nil, err
	}

	if err := sleep(ctx, retryDelay); err != nil {
		return nil, err
	}
	return src.FetchOrders(ctx, params)
}

// sleep pauses for d, waking early with the context's error when the
// caller cancels.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
