package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/audit"
)

// AuditController lists the sync audit trail.
type AuditController struct {
	service *audit.Service
}

func NewAuditController(service *audit.Service) *AuditController {
	return &AuditController{service: service}
}

func (a *AuditController) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	events, err := a.service.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load audit events"})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}
