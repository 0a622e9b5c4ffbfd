package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/a94tkh14/magazzino/internal/entities"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

const flatDefaultLimit = 50

// Flat is the fallback strategy: a single unfiltered cursor walk with a
// smaller per-call limit, used when the partitioned strategy is suspected
// to be blocked or rate limited. Unlike StatusPartitioned there is no
// partition to fall back to, so any fetch error aborts the whole run.
type Flat struct {
	Limit    int
	DaysBack int

	PageDelay  time.Duration
	RetryDelay time.Duration
}

func (f *Flat) Ingest(ctx context.Context, src SourceClient, fn ProgressFunc) ([]entities.Order, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = flatDefaultLimit
	}
	pageDelay := f.PageDelay
	if pageDelay == 0 {
		pageDelay = defaultPageDelay
	}
	retryDelay := f.RetryDelay
	if retryDelay == 0 {
		retryDelay = defaultRetryDelay
	}

	r := newRun(fn)
	pageInfo := ""

	for pageNum := 1; ; pageNum++ {
		if cancelled(ctx) {
			return r.orders, ErrAborted
		}
		if pageNum > maxPagesPerRun {
			return r.orders, nil
		}
		if pageNum > 1 {
			if err := sleep(ctx, pageDelay); err != nil {
				return r.orders, ErrAborted
			}
		}

		params := shopify.FetchParams{Limit: limit, PageInfo: pageInfo}
		if pageInfo == "" {
			params.Status = "any"
			params.DaysBack = f.DaysBack
		}

		page, err := fetchWithRetry(ctx, src, params, retryDelay)
		if err != nil {
			if ctx.Err() != nil {
				return r.orders, ErrAborted
			}
			return r.orders, &IngestionError{PartialOrders: len(r.orders), Err: err}
		}

		r.pages++
		r.merge(page.Orders)
		r.report(fmt.Sprintf("Fetching orders, page %d", pageNum))

		if page.NextPageInfo == "" || len(page.Orders) == 0 {
			return r.orders, nil
		}
		pageInfo = page.NextPageInfo
	}
}
