package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/a94tkh14/magazzino/internal/audit"
	"github.com/a94tkh14/magazzino/internal/database/orders"
	"github.com/a94tkh14/magazzino/internal/entities"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

// Runner owns the single active ingestion run of the process: its progress
// snapshot, run ID, and cancel func. On success it persists the merged set
// through both the payload store and the record store; on abort or failure
// the previously stored collection is left untouched.
type Runner struct {
	settings   *settingsstore.SettingsStore
	client     *shopify.Client
	ordersRepo *orders.Repository
	payloads   *payloadstore.Store
	audit      *audit.Service

	limit    int
	daysBack int

	mu       sync.Mutex
	running  bool
	runID    string
	progress Progress
	cancel   context.CancelFunc
}

// NewRunner wires the runner to its collaborators. limit and daysBack are
// the configured defaults applied to every run.
func NewRunner(settings *settingsstore.SettingsStore, client *shopify.Client, ordersRepo *orders.Repository, payloads *payloadstore.Store, auditSvc *audit.Service, limit, daysBack int) *Runner {
	return &Runner{
		settings:   settings,
		client:     client,
		ordersRepo: ordersRepo,
		payloads:   payloads,
		audit:      auditSvc,
		limit:      limit,
		daysBack:   daysBack,
	}
}

// Status is a point-in-time view of the runner for the HTTP layer.
type Status struct {
	Running  bool
	RunID    string
	Progress Progress
	LastRun  settingsstore.OrderSyncStatus
}

// Start begins an ingestion run in the background and returns its run ID.
// Only one run may be active per process.
func (r *Runner) Start(strategyName string) (string, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return "", ErrAlreadyRunning
	}

	if !r.settings.HasShopCredentials() {
		r.mu.Unlock()
		return "", shopify.ErrMissingCredentials
	}

	cfg := r.settings.GetShopConfig()
	session, err := r.client.NewSession(shopify.Credentials{
		ShopDomain:  cfg.Domain,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
	})
	if err != nil {
		r.mu.Unlock()
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	runID := uuid.New().String()

	r.running = true
	r.runID = runID
	r.cancel = cancel
	r.progress = Progress{CurrentStatus: "Starting"}
	r.mu.Unlock()

	go r.run(ctx, session, r.buildStrategy(strategyName), runID)

	return runID, nil
}

func (r *Runner) buildStrategy(name string) Strategy {
	if name == "flat" {
		return &Flat{Limit: r.limit, DaysBack: r.daysBack}
	}
	return &StatusPartitioned{Limit: r.limit, DaysBack: r.daysBack}
}

func (r *Runner) run(ctx context.Context, session *shopify.Session, strategy Strategy, runID string) {
	log.Printf("Order sync: run %s started", runID)

	defer func() {
		r.mu.Lock()
		r.running = false
		r.cancel = nil
		r.progress = Progress{}
		r.mu.Unlock()
	}()

	result, err := strategy.Ingest(ctx, session, func(p Progress) {
		r.mu.Lock()
		r.progress = p
		r.mu.Unlock()
	})

	switch {
	case err == nil:
		r.finishSuccess(runID, result)
	case err == ErrAborted || ctx.Err() != nil:
		log.Printf("Order sync: run %s cancelled after %d orders", runID, len(result))
		r.recordOutcome("cancelled", "Sync cancelled", false, "cancelled by user", len(result))
	default:
		log.Printf("Order sync: run %s failed: %v", runID, err)
		r.recordOutcome("failed", err.Error(), false, err.Error(), len(result))
	}
}

func (r *Runner) finishSuccess(runID string, result []entities.Order) {
	if err := r.persist(result); err != nil {
		log.Printf("Order sync: run %s could not persist %d orders: %v", runID, len(result), err)
		r.recordOutcome("failed", fmt.Sprintf("Downloaded %d orders but could not store them: %v", len(result), err), false, err.Error(), len(result))
		return
	}

	msg := fmt.Sprintf("Downloaded %d orders", len(result))
	log.Printf("Order sync: run %s completed, %s", runID, msg)
	r.recordOutcome("success", msg, true, "", len(result))
}

// persist writes the merged set through the payload store first and the
// record store second. Both writes replace the full stored collection.
func (r *Runner) persist(result []entities.Order) error {
	raw := make([]json.RawMessage, 0, len(result))
	for i := range result {
		data, err := json.Marshal(&result[i])
		if err != nil {
			return fmt.Errorf("serialize order %d: %w", result[i].ShopifyID, err)
		}
		raw = append(raw, data)
	}

	if err := r.payloads.Save(payloadstore.DefaultKey, raw); err != nil {
		return err
	}
	return r.ordersRepo.ReplaceAll(result)
}

func (r *Runner) recordOutcome(status, message string, success bool, errMsg string, count int) {
	if err := r.settings.SetOrderSyncStatus(status, message, count); err != nil {
		log.Printf("Order sync: failed to record run status: %v", err)
	}
	if err := r.audit.LogSync("shopify", message, success, errMsg, count); err != nil {
		log.Printf("Order sync: failed to record audit event: %v", err)
	}
}

// Cancel signals the active run to stop. The in-flight page request is
// allowed to finish naturally; the loop will not issue another call.
// Returns false when no run is active.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.cancel == nil {
		return false
	}
	r.cancel()
	return true
}

// IsRunning reports whether a run is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Status returns the current runner view, including the persisted summary
// of the last finished run.
func (r *Runner) Status() Status {
	r.mu.Lock()
	running := r.running
	runID := r.runID
	progress := r.progress
	r.mu.Unlock()

	return Status{
		Running:  running,
		RunID:    runID,
		Progress: progress,
		LastRun:  r.settings.GetOrderSyncStatus(),
	}
}

// RunBlocking executes one ingestion run synchronously with the supplied
// context. Used by the scheduler, the task queue, and the CLI subcommand.
func (r *Runner) RunBlocking(ctx context.Context, strategyName string) (int, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return 0, ErrAlreadyRunning
	}

	if !r.settings.HasShopCredentials() {
		r.mu.Unlock()
		return 0, shopify.ErrMissingCredentials
	}

	cfg := r.settings.GetShopConfig()
	session, err := r.client.NewSession(shopify.Credentials{
		ShopDomain:  cfg.Domain,
		AccessToken: cfg.AccessToken,
		APIVersion:  cfg.APIVersion,
	})
	if err != nil {
		r.mu.Unlock()
		return 0, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	runID := uuid.New().String()

	r.running = true
	r.runID = runID
	r.cancel = cancel
	r.progress = Progress{CurrentStatus: "Starting"}
	r.mu.Unlock()

	r.run(runCtx, session, r.buildStrategy(strategyName), runID)

	status := r.settings.GetOrderSyncStatus()
	switch status.Status {
	case "success":
		return status.OrdersSynced, nil
	case "cancelled":
		return status.OrdersSynced, ErrAborted
	default:
		return status.OrdersSynced, fmt.Errorf("order sync failed: %s", status.Message)
	}
}
