package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/a94tkh14/magazzino/internal/database/products"
	"github.com/a94tkh14/magazzino/internal/entities"
)

// ProductsController serves the product catalog and stock intake.
type ProductsController struct {
	repo *products.Repository
}

func NewProductsController(repo *products.Repository) *ProductsController {
	return &ProductsController{repo: repo}
}

func (p *ProductsController) GetAllProducts(c *gin.Context) {
	all, err := p.repo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"products": all,
		"count":    len(all),
	})
}

func (p *ProductsController) GetProduct(c *gin.Context) {
	id, ok := p.parseID(c)
	if !ok {
		return
	}

	product, err := p.repo.GetByID(id)
	if err != nil {
		p.writeLookupError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, product)
}

type productRequest struct {
	SKU      string  `json:"sku" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Vendor   string  `json:"vendor"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (p *ProductsController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku and name are required"})
		return
	}

	product := entities.Product{
		SKU:      req.SKU,
		Name:     req.Name,
		Vendor:   req.Vendor,
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	if err := p.repo.Create(&product); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create product, is the SKU unique?"})
		return
	}
	c.IndentedJSON(http.StatusCreated, product)
}

type productUpdateRequest struct {
	Name   *string  `json:"name"`
	Vendor *string  `json:"vendor"`
	Price  *float64 `json:"price"`
}

func (p *ProductsController) UpdateProduct(c *gin.Context) {
	id, ok := p.parseID(c)
	if !ok {
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := p.repo.GetByID(id)
	if err != nil {
		p.writeLookupError(c, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Vendor != nil {
		product.Vendor = *req.Vendor
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := p.repo.Update(product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	c.IndentedJSON(http.StatusOK, product)
}

func (p *ProductsController) DeleteProduct(c *gin.Context) {
	id, ok := p.parseID(c)
	if !ok {
		return
	}

	if err := p.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type addStockRequest struct {
	Quantity int     `json:"quantity" binding:"required"`
	UnitCost float64 `json:"unitCost"`
	Note     string  `json:"note"`
}

func (p *ProductsController) AddStock(c *gin.Context) {
	id, ok := p.parseID(c)
	if !ok {
		return
	}

	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer"})
		return
	}

	entry := entities.StockEntry{
		Quantity: req.Quantity,
		UnitCost: req.UnitCost,
		Note:     req.Note,
	}
	if err := p.repo.AddStock(id, &entry); err != nil {
		p.writeLookupError(c, err)
		return
	}

	product, err := p.repo.GetByID(id)
	if err != nil {
		p.writeLookupError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, product)
}

func (p *ProductsController) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return uint(id), true
}

func (p *ProductsController) writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
}
