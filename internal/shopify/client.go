// Package shopify implements the order source client for the Shopify REST
// Admin API: one HTTP call per logical page, Link-header cursor extraction,
// and normalization of raw order JSON into the canonical order shape.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultAPIVersion = "2024-04"
	defaultPageLimit  = 250
	maxResponseBytes  = 20 << 20
)

// Credentials identifies one shop.
type Credentials struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
}

// Client interfaces with the Shopify REST Admin API
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new Shopify API client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithHTTPClient creates a client that performs requests with the
// given HTTP client.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{httpClient: httpClient}
}

// Session is a Client bound to one shop's credentials.
type Session struct {
	client *Client
	creds  Credentials

	// baseURL overrides the https://{domain} prefix in tests.
	baseURL string
}

// NewSession binds the client to a shop. Missing domain or token is a hard
// precondition failure: no ingestion run can proceed without credentials.
func (c *Client) NewSession(creds Credentials) (*Session, error) {
	if creds.ShopDomain == "" || creds.AccessToken == "" {
		return nil, ErrMissingCredentials
	}
	if creds.APIVersion == "" {
		creds.APIVersion = defaultAPIVersion
	}
	return &Session{client: c, creds: creds}, nil
}

// FetchParams describes one page request. PageInfo is mutually exclusive
// with every filter field: the cursor encodes the original filter already.
type FetchParams struct {
	Status            string
	FulfillmentStatus string
	FinancialStatus   string
	PageInfo          string
	Limit             int
	DaysBack          int
}

func (p FetchParams) hasFilters() bool {
	return p.Status != "" || p.FulfillmentStatus != "" || p.FinancialStatus != "" || p.DaysBack > 0
}

// OrdersPage is one page of raw orders plus the cursor to the next page.
// An empty NextPageInfo means this was the final page for the current walk.
type OrdersPage struct {
	Orders       []RawOrder
	NextURL      string
	NextPageInfo string
}

type ordersEnvelope struct {
	Orders []RawOrder `json:"orders"`
}

// FetchOrders performs exactly one GET against the orders endpoint and
// returns the parsed page. The filter/cursor exclusivity check runs before
// any network I/O.
func (s *Session) FetchOrders(ctx context.Context, params FetchParams) (*OrdersPage, error) {
	reqURL, err := s.buildURL(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", s.creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var envelope ordersEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode orders response: %w", err)
	}

	nextURL, nextPageInfo := parseNextLink(resp.Header.Get("Link"))

	return &OrdersPage{
		Orders:       envelope.Orders,
		NextURL:      nextURL,
		NextPageInfo: nextPageInfo,
	}, nil
}

func (s *Session) buildURL(params FetchParams) (string, error) {
	if params.PageInfo != "" && params.hasFilters() {
		return "", ErrFilterWithCursor
	}

	base := s.baseURL
	if base == "" {
		base = "https://" + s.creds.ShopDomain
	}

	u, err := url.Parse(fmt.Sprintf("%s/admin/api/%s/orders.json", base, s.creds.APIVersion))
	if err != nil {
		return "", fmt.Errorf("failed to build orders URL: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > defaultPageLimit {
		limit = defaultPageLimit
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))

	if params.PageInfo != "" {
		q.Set("page_info", params.PageInfo)
	} else {
		if params.Status != "" {
			q.Set("status", params.Status)
		}
		if params.FulfillmentStatus != "" {
			q.Set("fulfillment_status", params.FulfillmentStatus)
		}
		if params.FinancialStatus != "" {
			q.Set("financial_status", params.FinancialStatus)
		}
		if params.DaysBack > 0 {
			floor := time.Now().AddDate(0, 0, -params.DaysBack).UTC().Format(time.RFC3339)
			q.Set("created_at_min", floor)
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}
