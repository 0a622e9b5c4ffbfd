package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a94tkh14/magazzino/internal/shopify"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func upstreamResponse(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// newProxyRouter wires the proxy endpoint exactly like the real router,
// with upstream calls answered by rt instead of the network.
func newProxyRouter(rt roundTripperFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	client := shopify.NewClientWithHTTPClient(&http.Client{Transport: rt})
	proxy := NewSyncOrdersProxyController(client)

	router := gin.New()
	router.POST("/sync-orders", corsMiddleware(), proxy.SyncOrders)
	router.OPTIONS("/sync-orders", corsMiddleware(), proxy.Preflight)
	return router
}

func postSyncOrders(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sync-orders", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSyncOrdersProxy_Success(t *testing.T) {
	var gotRequest *http.Request
	router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
		gotRequest = req
		header := http.Header{}
		header.Set("Link", `<https://test-shop.myshopify.com/admin/api/2024-04/orders.json?limit=50&page_info=abc123>; rel="next"`)
		return upstreamResponse(http.StatusOK, `{"orders":[{"id":1,"name":"#1001"},{"id":2,"name":"#1002"}]}`, header), nil
	})

	w := postSyncOrders(t, router, map[string]any{
		"shopDomain":  "test-shop.myshopify.com",
		"accessToken": "shpat_token",
		"limit":       50,
		"status":      "any",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	require.NotNil(t, gotRequest)
	assert.Equal(t, "shpat_token", gotRequest.Header.Get("X-Shopify-Access-Token"))
	assert.Equal(t, "any", gotRequest.URL.Query().Get("status"))

	var response struct {
		Success    bool              `json:"success"`
		TotalCount int               `json:"totalCount"`
		Orders     []json.RawMessage `json:"orders"`
		Pagination struct {
			Next struct {
				PageInfo string `json:"pageInfo"`
			} `json:"next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, 2, response.TotalCount)
	assert.Len(t, response.Orders, 2)
	assert.Equal(t, "abc123", response.Pagination.Next.PageInfo)
}

func TestSyncOrdersProxy_CursorFollowUp(t *testing.T) {
	var gotRequest *http.Request
	router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
		gotRequest = req
		return upstreamResponse(http.StatusOK, `{"orders":[]}`, nil), nil
	})

	w := postSyncOrders(t, router, map[string]any{
		"shopDomain":  "test-shop.myshopify.com",
		"accessToken": "shpat_token",
		"pageInfo":    "abc123",
		// Filters must be dropped when a cursor is present
		"status": "open",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, gotRequest)
	assert.Equal(t, "abc123", gotRequest.URL.Query().Get("page_info"))
	assert.Empty(t, gotRequest.URL.Query().Get("status"))

	var response struct {
		Success    bool           `json:"success"`
		Pagination map[string]any `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Empty(t, response.Pagination, "final page should carry no next cursor")
}

func TestSyncOrdersProxy_MirrorsUpstreamStatus(t *testing.T) {
	tests := []struct {
		name           string
		upstreamStatus int
		wantError      string
	}{
		{"unauthorized", http.StatusUnauthorized, "Invalid or expired access token"},
		{"forbidden", http.StatusForbidden, "Access token lacks the required permissions"},
		{"rate limited", http.StatusTooManyRequests, "Rate limited by the Shopify API, slow down"},
		{"server error", http.StatusInternalServerError, "Shopify API is temporarily unavailable"},
		{"bad gateway", http.StatusBadGateway, "Shopify API is temporarily unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
				return upstreamResponse(tt.upstreamStatus, `{"errors":"nope"}`, nil), nil
			})

			w := postSyncOrders(t, router, map[string]any{
				"shopDomain":  "test-shop.myshopify.com",
				"accessToken": "shpat_token",
			})

			assert.Equal(t, tt.upstreamStatus, w.Code)

			var response struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.False(t, response.Success)
			assert.Equal(t, tt.wantError, response.Error)
		})
	}
}

func TestSyncOrdersProxy_TransportErrorIsBadGateway(t *testing.T) {
	router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})

	w := postSyncOrders(t, router, map[string]any{
		"shopDomain":  "test-shop.myshopify.com",
		"accessToken": "shpat_token",
	})

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSyncOrdersProxy_MissingCredentials(t *testing.T) {
	called := false
	router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
		called = true
		return upstreamResponse(http.StatusOK, `{"orders":[]}`, nil), nil
	})

	w := postSyncOrders(t, router, map[string]any{
		"shopDomain": "test-shop.myshopify.com",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called, "no upstream call should be made without credentials")
}

func TestSyncOrdersProxy_InvalidBody(t *testing.T) {
	router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no upstream call expected")
		return nil, nil
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/sync-orders", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncOrdersProxy_Preflight(t *testing.T) {
	router := newProxyRouter(func(req *http.Request) (*http.Response, error) {
		t.Fatal("no upstream call expected")
		return nil, nil
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/sync-orders", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
}
