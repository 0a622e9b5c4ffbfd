package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/database"
)

// HealthResponse reports liveness plus the state of the record store.
// The dashboard frontend polls this endpoint.
type HealthResponse struct {
	Status    string `json:"status"` // "ok" or "degraded"
	Version   string `json:"version,omitempty"`
	CheckedAt string `json:"checkedAt"`
	Database  string `json:"database"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status answers 200 while the record store responds to pings and 503
// once it stops doing so.
func (h *HealthController) Status(c *gin.Context) {
	health := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
		Database:  "ok",
	}

	switch {
	case h.db == nil:
		health.Database = "not configured"
	default:
		if err := h.pingDatabase(); err != nil {
			health.Status = "degraded"
			health.Database = "error: " + err.Error()
		}
	}

	code := http.StatusOK
	if health.Status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.IndentedJSON(code, health)
}

func (h *HealthController) pingDatabase() error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
