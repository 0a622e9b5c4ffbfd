package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/scheduler"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
)

// ShopifySettingsController manages shop credentials and sync settings.
type ShopifySettingsController struct {
	store     *settingsstore.SettingsStore
	scheduler *scheduler.OrderSyncScheduler
}

func NewShopifySettingsController(store *settingsstore.SettingsStore, sched *scheduler.OrderSyncScheduler) *ShopifySettingsController {
	return &ShopifySettingsController{store: store, scheduler: sched}
}

// GetSettings returns the effective configuration with masked token and
// per-field sources.
func (s *ShopifySettingsController) GetSettings(c *gin.Context) {
	resp := gin.H{
		"shop":         s.store.GetShopConfigInfo(),
		"syncEnabled":  s.store.GetOrderSyncEnabled(),
		"syncSchedule": s.store.GetOrderSyncSchedule(),
		"lastRun":      s.store.GetOrderSyncStatus(),
	}
	if s.scheduler != nil {
		if next := s.scheduler.GetNextRunTime(); next != nil {
			resp["nextRunAt"] = next
		}
	}
	c.IndentedJSON(http.StatusOK, resp)
}

type saveShopifySettingsRequest struct {
	ShopDomain   *string `json:"shopDomain"`
	AccessToken  *string `json:"accessToken"`
	APIVersion   *string `json:"apiVersion"`
	SyncEnabled  *bool   `json:"syncEnabled"`
	SyncSchedule *string `json:"syncSchedule"`
}

// SaveSettings updates the provided fields. Omitted fields stay untouched.
func (s *ShopifySettingsController) SaveSettings(c *gin.Context) {
	var req saveShopifySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.SyncSchedule != nil {
		if err := settingsstore.ValidateCronSchedule(*req.SyncSchedule); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid cron schedule: " + *req.SyncSchedule,
			})
			return
		}
	}

	var updates []func() error
	if req.ShopDomain != nil {
		updates = append(updates, func() error { return s.store.SetShopDomain(*req.ShopDomain) })
	}
	if req.AccessToken != nil {
		updates = append(updates, func() error { return s.store.SetAccessToken(*req.AccessToken) })
	}
	if req.APIVersion != nil {
		updates = append(updates, func() error { return s.store.SetAPIVersion(*req.APIVersion) })
	}
	if req.SyncEnabled != nil {
		updates = append(updates, func() error { return s.store.SetOrderSyncEnabled(*req.SyncEnabled) })
	}
	if req.SyncSchedule != nil {
		updates = append(updates, func() error { return s.store.SetOrderSyncSchedule(*req.SyncSchedule) })
	}

	for _, update := range updates {
		if err := update(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
			return
		}
	}

	s.reschedule()

	c.IndentedJSON(http.StatusOK, gin.H{
		"message": "Settings saved",
		"shop":    s.store.GetShopConfigInfo(),
	})
}

// ClearSettings removes all database overrides, reverting to env/default.
func (s *ShopifySettingsController) ClearSettings(c *gin.Context) {
	if err := s.store.ClearShopSettings(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear settings"})
		return
	}

	s.reschedule()

	c.JSON(http.StatusOK, gin.H{
		"message": "Shop settings cleared",
	})
}

func (s *ShopifySettingsController) reschedule() {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.Reschedule(); err != nil {
		log.Printf("Order sync scheduler: reschedule after settings change failed: %v", err)
	}
}
