package entities

import (
	"time"
)

// Order is the canonical shape of a Shopify order after normalization.
// ShopifyID is the source-assigned identifier and the deduplication key:
// the stored collection never contains two orders with the same ShopifyID.
type Order struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	ShopifyID int64 `gorm:"uniqueIndex" json:"shopify_id"`

	OrderNumber string `gorm:"size:50" json:"order_number"`

	// Source timestamps, copied verbatim. autoCreateTime/autoUpdateTime are
	// disabled so gorm does not overwrite them on insert.
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`

	TotalPrice    float64 `json:"total_price"`
	ShippingPrice float64 `json:"shipping_price"`

	FinancialStatus   string `gorm:"size:50" json:"financial_status"`
	FulfillmentStatus string `gorm:"size:50" json:"fulfillment_status"`

	// Customer is a denormalized snapshot copied at ingestion time.
	// It is not kept in sync with later customer edits.
	CustomerShopifyID int64  `json:"customer_shopify_id"`
	CustomerName      string `gorm:"size:255" json:"customer_name"`
	CustomerEmail     string `gorm:"size:255" json:"customer_email"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line item of an order.
type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index" json:"order_id"`

	SKU      string  `gorm:"size:100" json:"sku"`
	Name     string  `gorm:"size:512" json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Vendor   string  `gorm:"size:255" json:"vendor,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
