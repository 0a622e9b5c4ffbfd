package shopify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestSession(t *testing.T, serverURL string) *Session {
	t.Helper()
	session, err := NewClient().NewSession(Credentials{
		ShopDomain:  "test-shop.myshopify.com",
		AccessToken: "shpat_test",
	})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	session.baseURL = serverURL
	return session
}

func TestNewSessionRequiresCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"missing domain", Credentials{AccessToken: "shpat_test"}},
		{"missing token", Credentials{ShopDomain: "test-shop.myshopify.com"}},
		{"missing both", Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient().NewSession(tt.creds)
			if !errors.Is(err, ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	}
}

func TestFetchOrdersRejectsFilterWithCursor(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)

	params := []FetchParams{
		{PageInfo: "abc", Status: "open"},
		{PageInfo: "abc", FulfillmentStatus: "shipped"},
		{PageInfo: "abc", FinancialStatus: "refunded"},
		{PageInfo: "abc", DaysBack: 30},
	}

	for _, p := range params {
		_, err := session.FetchOrders(context.Background(), p)
		if !errors.Is(err, ErrFilterWithCursor) {
			t.Errorf("FetchOrders(%+v): expected ErrFilterWithCursor, got %v", p, err)
		}
	}

	if requestCount != 0 {
		t.Errorf("expected no network calls, got %d", requestCount)
	}
}

func TestFetchOrdersFirstPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Shopify-Access-Token") != "shpat_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.URL.Query().Get("status"); got != "open" {
			t.Errorf("status = %q, want %q", got, "open")
		}
		if got := r.URL.Query().Get("limit"); got != "250" {
			t.Errorf("limit = %q, want %q", got, "250")
		}
		if r.URL.Query().Has("page_info") {
			t.Error("first page should not carry page_info")
		}

		w.Header().Set("Link", `<https://test-shop.myshopify.com/admin/api/2024-04/orders.json?page_info=next42&limit=250>; rel="next"`)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[{"id":1,"name":"#1001","total_price":"10.00"},{"id":2,"name":"#1002","total_price":"20.00"}]}`))
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)

	page, err := session.FetchOrders(context.Background(), FetchParams{Status: "open"})
	if err != nil {
		t.Fatalf("FetchOrders failed: %v", err)
	}

	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.Orders[0].ID != 1 || page.Orders[1].ID != 2 {
		t.Errorf("unexpected order IDs: %d, %d", page.Orders[0].ID, page.Orders[1].ID)
	}
	if page.NextPageInfo != "next42" {
		t.Errorf("NextPageInfo = %q, want %q", page.NextPageInfo, "next42")
	}
}

func TestFetchOrdersCursorPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page_info"); got != "next42" {
			t.Errorf("page_info = %q, want %q", got, "next42")
		}
		if r.URL.Query().Has("status") {
			t.Error("cursor page should not carry a status filter")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[{"id":3,"name":"#1003","total_price":"30.00"}]}`))
	}))
	defer server.Close()

	session := newTestSession(t, server.URL)

	page, err := session.FetchOrders(context.Background(), FetchParams{PageInfo: "next42"})
	if err != nil {
		t.Fatalf("FetchOrders failed: %v", err)
	}

	if len(page.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(page.Orders))
	}
	if page.NextPageInfo != "" {
		t.Errorf("expected no next cursor on final page, got %q", page.NextPageInfo)
	}
}

func TestFetchOrdersHTTPErrors(t *testing.T) {
	tests := []struct {
		statusCode    int
		wantRetryable bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.statusCode)
		}))

		session := newTestSession(t, server.URL)
		_, err := session.FetchOrders(context.Background(), FetchParams{})

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			t.Fatalf("status %d: expected *HTTPError, got %v", tt.statusCode, err)
		}
		if httpErr.StatusCode != tt.statusCode {
			t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.statusCode)
		}
		if httpErr.Retryable() != tt.wantRetryable {
			t.Errorf("status %d: Retryable() = %v, want %v", tt.statusCode, httpErr.Retryable(), tt.wantRetryable)
		}

		server.Close()
	}
}

func TestFetchOrdersTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed before use to force a connection failure

	session := newTestSession(t, server.URL)
	_, err := session.FetchOrders(context.Background(), FetchParams{})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("transport errors should be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&HTTPError{StatusCode: 429}, true},
		{&HTTPError{StatusCode: 500}, true},
		{&HTTPError{StatusCode: 401}, false},
		{&RequestError{Err: errors.New("connection refused")}, true},
		{ErrFilterWithCursor, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsRetryable(tt.err); got != tt.want {
			t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
