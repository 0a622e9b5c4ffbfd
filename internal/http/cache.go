package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
)

// CacheController manages the local order payload cache.
type CacheController struct {
	store    *payloadstore.Store
	settings *settingsstore.SettingsStore
}

func NewCacheController(store *payloadstore.Store, settings *settingsstore.SettingsStore) *CacheController {
	return &CacheController{store: store, settings: settings}
}

// Clear removes the cached order payload entirely.
func (cc *CacheController) Clear(c *gin.Context) {
	if err := cc.store.Clear(payloadstore.DefaultKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear order cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cache cleared"})
}

// Cleanup evicts the cached payload when it is older than the TTL.
func (cc *CacheController) Cleanup(c *gin.Context) {
	maxAgeDays := cc.settings.GetOrderCacheTTLDays()

	evicted, err := cc.store.Cleanup(payloadstore.DefaultKey, maxAgeDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clean up order cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evicted":    evicted,
		"maxAgeDays": maxAgeDays,
	})
}
