// Package orders provides database operations for the synced order collection.
//
// The repository exposes replace-by-collection semantics: every sync run
// hands over the complete deduplicated set and ReplaceAll swaps it in as a
// whole. Individual rows are never updated in place.
//
// # Usage
//
//	repo := orders.NewRepository(db)
//	err := repo.ReplaceAll(syncedOrders)
package orders

import (
	"gorm.io/gorm"

	"github.com/a94tkh14/magazzino/internal/entities"
)

// Repository handles all order collection database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new orders repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReplaceAll swaps the stored collection for the given one inside a single
// transaction. A reader never observes a half-replaced collection.
func (r *Repository) ReplaceAll(orders []entities.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&entities.Order{}).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return nil
		}
		// Insert in batches so a large sync does not build one giant statement.
		return tx.CreateInBatches(orders, 100).Error
	})
}

// GetAll returns the full stored collection with line items preloaded.
func (r *Repository) GetAll() ([]entities.Order, error) {
	var orders []entities.Order
	err := r.db.Preload("Items").Order("id asc").Find(&orders).Error
	return orders, err
}

// GetByShopifyID returns one order by its source-assigned identifier.
func (r *Repository) GetByShopifyID(shopifyID int64) (*entities.Order, error) {
	var order entities.Order
	err := r.db.Preload("Items").Where("shopify_id = ?", shopifyID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Count returns the number of stored orders.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Order{}).Count(&count).Error
	return count, err
}

// Stats summarises the stored collection for the dashboard.
type Stats struct {
	TotalOrders   int64   `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalShipping float64 `json:"total_shipping"`
}

// GetStats computes collection totals.
func (r *Repository) GetStats() (*Stats, error) {
	var stats Stats
	err := r.db.Model(&entities.Order{}).
		Select("COUNT(*) as total_orders, COALESCE(SUM(total_price), 0) as total_revenue, COALESCE(SUM(shipping_price), 0) as total_shipping").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
