package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/a94tkh14/magazzino/internal/shopify"
)

// SyncOrdersRequest is the proxy request body. Credentials ride in the
// body because the caller is a browser frontend that cannot reach the
// Admin API directly. Filters apply only when pageInfo is absent.
type SyncOrdersRequest struct {
	ShopDomain        string `json:"shopDomain"`
	AccessToken       string `json:"accessToken"`
	APIVersion        string `json:"apiVersion"`
	Limit             int    `json:"limit"`
	Status            string `json:"status"`
	PageInfo          string `json:"pageInfo"`
	DaysBack          int    `json:"daysBack"`
	FulfillmentStatus string `json:"fulfillmentStatus"`
	FinancialStatus   string `json:"financialStatus"`
}

// SyncOrdersProxyController forwards one page request to the Admin API and
// reshapes the response for the frontend.
type SyncOrdersProxyController struct {
	client *shopify.Client
}

func NewSyncOrdersProxyController(client *shopify.Client) *SyncOrdersProxyController {
	return &SyncOrdersProxyController{client: client}
}

// Preflight answers the CORS preflight with an empty 200.
func (p *SyncOrdersProxyController) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// SyncOrders fetches exactly one page of orders upstream. Non-200 upstream
// failures are mirrored back with the same status class.
func (p *SyncOrdersProxyController) SyncOrders(c *gin.Context) {
	var req SyncOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session, err := p.client.NewSession(shopify.Credentials{
		ShopDomain:  req.ShopDomain,
		AccessToken: req.AccessToken,
		APIVersion:  req.APIVersion,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Shop domain and access token are required",
		})
		return
	}

	params := shopify.FetchParams{
		Limit:    req.Limit,
		PageInfo: req.PageInfo,
	}
	if req.PageInfo == "" {
		// The cursor alone determines the result set on follow-up calls
		params.Status = req.Status
		params.FulfillmentStatus = req.FulfillmentStatus
		params.FinancialStatus = req.FinancialStatus
		params.DaysBack = req.DaysBack
	}

	page, err := session.FetchOrders(c.Request.Context(), params)
	if err != nil {
		p.writeError(c, err)
		return
	}

	pagination := gin.H{}
	if page.NextPageInfo != "" {
		pagination["next"] = gin.H{
			"url":      page.NextURL,
			"pageInfo": page.NextPageInfo,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"orders":     page.Orders,
		"totalCount": len(page.Orders),
		"pagination": pagination,
		"metadata": gin.H{
			"shopDomain":  req.ShopDomain,
			"apiVersion":  req.APIVersion,
			"requestedAt": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (p *SyncOrdersProxyController) writeError(c *gin.Context, err error) {
	var httpErr *shopify.HTTPError
	var reqErr *shopify.RequestError

	switch {
	case errors.Is(err, shopify.ErrFilterWithCursor):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Filters cannot be combined with a page cursor",
		})
	case errors.As(err, &httpErr):
		c.JSON(httpErr.StatusCode, gin.H{
			"success": false,
			"error":   upstreamErrorMessage(httpErr.StatusCode),
			"details": httpErr.Message,
		})
	case errors.As(err, &reqErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "Could not reach the Shopify API",
			"details": reqErr.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Unexpected error",
			"details": err.Error(),
		})
	}
}

func upstreamErrorMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Invalid or expired access token"
	case status == http.StatusForbidden:
		return "Access token lacks the required permissions"
	case status == http.StatusTooManyRequests:
		return "Rate limited by the Shopify API, slow down"
	case status >= 500:
		return "Shopify API is temporarily unavailable"
	default:
		return "Shopify API rejected the request"
	}
}
