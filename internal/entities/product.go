package entities

import (
	"time"
)

// Product is one catalog entry.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SKU       string    `gorm:"uniqueIndex;size:100" json:"sku"`
	Name      string    `gorm:"size:512" json:"name"`
	Vendor    string    `gorm:"size:255" json:"vendor,omitempty"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StockEntries []StockEntry `gorm:"constraint:OnDelete:CASCADE" json:"stock_entries,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// StockEntry records one stock intake for a product.
type StockEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index" json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitCost  float64   `json:"unit_cost"`
	Note      string    `gorm:"size:512" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (StockEntry) TableName() string {
	return "stock_entries"
}
