package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/ingest"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

// SyncController exposes start/status/cancel for the ingestion runner.
type SyncController struct {
	runner *ingest.Runner
}

func NewSyncController(runner *ingest.Runner) *SyncController {
	return &SyncController{runner: runner}
}

type startSyncRequest struct {
	Strategy string `json:"strategy"`
}

// Start launches a background ingestion run.
func (s *SyncController) Start(c *gin.Context) {
	var req startSyncRequest
	// An empty body selects the default strategy
	_ = c.ShouldBindJSON(&req)

	runID, err := s.runner.Start(req.Strategy)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{
			"runId":   runID,
			"message": "Order sync started",
		})
	case errors.Is(err, ingest.ErrAlreadyRunning):
		c.JSON(http.StatusConflict, gin.H{
			"error": "An order sync is already in progress",
		})
	case errors.Is(err, shopify.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Shop credentials are not configured, set them in settings first",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
	}
}

// Status reports the active run's progress and the last finished run.
func (s *SyncController) Status(c *gin.Context) {
	status := s.runner.Status()

	// totalPages is rendered as "unknown" until the source reveals it
	var totalPages any = "unknown"
	if status.Progress.TotalPages > 0 {
		totalPages = status.Progress.TotalPages
	}

	resp := gin.H{
		"running": status.Running,
		"lastRun": status.LastRun,
	}
	if status.Running {
		resp["runId"] = status.RunID
		resp["progress"] = gin.H{
			"currentPage":      status.Progress.CurrentPage,
			"totalPages":       totalPages,
			"ordersDownloaded": status.Progress.OrdersDownloaded,
			"currentStatus":    status.Progress.CurrentStatus,
		}
	}

	c.IndentedJSON(http.StatusOK, resp)
}

// Cancel signals the active run to stop.
func (s *SyncController) Cancel(c *gin.Context) {
	if !s.runner.Cancel() {
		c.JSON(http.StatusConflict, gin.H{
			"error": "No order sync is in progress",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Order sync cancelled",
	})
}
