package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a94tkh14/magazzino/internal/audit"
	"github.com/a94tkh14/magazzino/internal/database"
	"github.com/a94tkh14/magazzino/internal/database/orders"
	"github.com/a94tkh14/magazzino/internal/ingest"
	"github.com/a94tkh14/magazzino/internal/payloadstore"
	"github.com/a94tkh14/magazzino/internal/settingsstore"
	"github.com/a94tkh14/magazzino/internal/shopify"
)

func setupSyncRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_sync_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	payloads, err := payloadstore.New(t.TempDir(), payloadstore.Options{})
	require.NoError(t, err)

	runner := ingest.NewRunner(
		settingsstore.New(db),
		shopify.NewClient(),
		orders.NewRepository(db.DB),
		payloads,
		audit.NewService(db.DB),
		250, 0,
	)

	controller := NewSyncController(runner)
	router := gin.New()
	router.POST("/api/sync/orders/start", controller.Start)
	router.GET("/api/sync/orders/status", controller.Status)
	router.POST("/api/sync/orders/cancel", controller.Cancel)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, cleanup
}

func withoutShopCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SHOPIFY_SHOP_DOMAIN", "SHOPIFY_ACCESS_TOKEN"} {
		if original, ok := os.LookupEnv(key); ok {
			key, original := key, original
			t.Cleanup(func() { os.Setenv(key, original) })
			os.Unsetenv(key)
		}
	}
}

func TestSyncController_StartWithoutCredentials(t *testing.T) {
	router, cleanup := setupSyncRouter(t)
	defer cleanup()
	withoutShopCredentials(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sync/orders/start", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "credentials")
}

func TestSyncController_StatusIdle(t *testing.T) {
	router, cleanup := setupSyncRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sync/orders/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["running"])
	assert.Contains(t, response, "lastRun")
	assert.NotContains(t, response, "progress", "idle status must not expose a progress block")
	assert.NotContains(t, response, "runId")
}

func TestSyncController_CancelWhenIdle(t *testing.T) {
	router, cleanup := setupSyncRouter(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/sync/orders/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
