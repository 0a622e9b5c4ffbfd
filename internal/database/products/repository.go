// Package products provides database operations for the product catalog
// and stock intake.
package products

import (
	"gorm.io/gorm"

	"github.com/a94tkh14/magazzino/internal/entities"
)

// Repository handles all product catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new products repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns the full catalog.
func (r *Repository) GetAll() ([]entities.Product, error) {
	var products []entities.Product
	err := r.db.Order("sku asc").Find(&products).Error
	return products, err
}

// GetByID returns one product with its stock entries.
func (r *Repository) GetByID(id uint) (*entities.Product, error) {
	var product entities.Product
	err := r.db.Preload("StockEntries").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetBySKU returns one product by SKU.
func (r *Repository) GetBySKU(sku string) (*entities.Product, error) {
	var product entities.Product
	err := r.db.Where("sku = ?", sku).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product.
func (r *Repository) Create(product *entities.Product) error {
	return r.db.Create(product).Error
}

// Update persists changes to an existing product.
func (r *Repository) Update(product *entities.Product) error {
	return r.db.Save(product).Error
}

// Delete removes a product and its stock entries.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&entities.StockEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Product{}, id).Error
	})
}

// AddStock records a stock intake and bumps the on-hand quantity.
func (r *Repository) AddStock(productID uint, entry *entities.StockEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var product entities.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		entry.ProductID = productID
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		product.Quantity += entry.Quantity
		return tx.Save(&product).Error
	})
}
