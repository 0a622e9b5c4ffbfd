package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/a94tkh14/magazzino/internal/entities"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

// partition is one status-filtered subset of the upstream order collection.
// The refunded subset has no status of its own upstream; it is expressed
// through the financial_status filter instead.
type partition struct {
	name            string
	status          string
	financialStatus string
}

var defaultPartitions = []partition{
	{name: "any", status: "any"},
	{name: "open", status: "open"},
	{name: "closed", status: "closed"},
	{name: "cancelled", status: "cancelled"},
	{name: "refunded", status: "any", financialStatus: "refunded"},
}

// StatusPartitioned walks a fixed ordered list of status partitions,
// paging sequentially within each. Partitions overlap heavily ("any"
// intersects all others), so the run-wide dedup set does the real work.
// A partition that fails on a non-transient error is abandoned and the
// walk moves to the next partition.
type StatusPartitioned struct {
	Limit    int
	DaysBack int

	// Courtesy pauses; zero values fall back to defaults.
	PageDelay      time.Duration
	RetryDelay     time.Duration
	PartitionDelay time.Duration

	partitions []partition
}

func (s *StatusPartitioned) defaults() (pageDelay, retryDelay, partitionDelay time.Duration, partitions []partition) {
	pageDelay = s.PageDelay
	if pageDelay == 0 {
		pageDelay = defaultPageDelay
	}
	retryDelay = s.RetryDelay
	if retryDelay == 0 {
		retryDelay = defaultRetryDelay
	}
	partitionDelay = s.PartitionDelay
	if partitionDelay == 0 {
		partitionDelay = defaultPartitionDelay
	}
	partitions = s.partitions
	if partitions == nil {
		partitions = defaultPartitions
	}
	return
}

// Ingest walks every partition and returns the deduplicated union.
// Cancellation is checked before each page fetch; a signalled context
// yields ErrAborted with the partial result merged so far.
func (s *StatusPartitioned) Ingest(ctx context.Context, src SourceClient, fn ProgressFunc) ([]entities.Order, error) {
	pageDelay, retryDelay, partitionDelay, partitions := s.defaults()

	r := newRun(fn)
	var lastPartitionErr error
	failedPartitions := 0

	for i, part := range partitions {
		if cancelled(ctx) {
			return r.orders, ErrAborted
		}
		if i > 0 {
			if err := sleep(ctx, partitionDelay); err != nil {
				return r.orders, ErrAborted
			}
		}

		if err := s.walkPartition(ctx, src, r, part, pageDelay, retryDelay); err != nil {
			if err == ErrAborted || ctx.Err() != nil {
				return r.orders, ErrAborted
			}
			log.Printf("Order sync: partition %q failed, moving on: %v", part.name, err)
			lastPartitionErr = err
			failedPartitions++
		}
	}

	if failedPartitions == len(partitions) {
		return r.orders, &IngestionError{PartialOrders: len(r.orders), Err: lastPartitionErr}
	}
	if lastPartitionErr != nil {
		log.Printf("Order sync: %d of %d partitions failed, last error: %v", failedPartitions, len(partitions), lastPartitionErr)
	}

	return r.orders, nil
}

func (s *StatusPartitioned) walkPartition(ctx context.Context, src SourceClient, r *run, part partition, pageDelay, retryDelay time.Duration) error {
	pageInfo := ""

	for pageNum := 1; ; pageNum++ {
		if cancelled(ctx) {
			return ErrAborted
		}
		if pageNum > maxPagesPerPartition || r.pages >= maxPagesPerRun {
			log.Printf("Order sync: page ceiling reached in partition %q, stopping walk", part.name)
			return nil
		}
		if pageNum > 1 {
			if err := sleep(ctx, pageDelay); err != nil {
				return ErrAborted
			}
		}

		params := shopify.FetchParams{Limit: s.Limit, PageInfo: pageInfo}
		if pageInfo == "" {
			// Filters ride only on the first call; the cursor carries
			// them afterwards
			params.Status = part.status
			params.FinancialStatus = part.financialStatus
			params.DaysBack = s.DaysBack
		}

		page, err := fetchWithRetry(ctx, src, params, retryDelay)
		if err != nil {
			if ctx.Err() != nil {
				return ErrAborted
			}
			return err
		}

		r.pages++
		r.merge(page.Orders)
		r.report(fmt.Sprintf("Fetching %s orders, page %d", part.name, pageNum))

		if page.NextPageInfo == "" || len(page.Orders) == 0 {
			return nil
		}
		pageInfo = page.NextPageInfo
	}
}
