package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/a94tkh14/magazzino/internal/database/orders"
)

// OrdersController serves the synced order collection.
type OrdersController struct {
	repo *orders.Repository
}

func NewOrdersController(repo *orders.Repository) *OrdersController {
	return &OrdersController{repo: repo}
}

// GetAllOrders returns the full stored collection with line items.
func (o *OrdersController) GetAllOrders(c *gin.Context) {
	all, err := o.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load orders",
		})
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{
		"orders": all,
		"count":  len(all),
	})
}

// GetOrder returns one order by its Shopify-assigned identifier.
func (o *OrdersController) GetOrder(c *gin.Context) {
	shopifyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := o.repo.GetByShopifyID(shopifyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.IndentedJSON(http.StatusOK, order)
}

// GetOrderStats returns dashboard totals.
func (o *OrdersController) GetOrderStats(c *gin.Context) {
	stats, err := o.repo.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to compute order stats",
		})
		return
	}

	c.IndentedJSON(http.StatusOK, stats)
}
