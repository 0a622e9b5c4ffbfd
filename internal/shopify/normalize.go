package shopify

import (
	"strconv"
	"strings"
	"time"

	"github.com/a94tkh14/magazzino/internal/entities"
)

// RawOrder is the wire shape of one order as returned by the Admin API.
// Monetary amounts come back as strings.
type RawOrder struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	OrderNumber       int           `json:"order_number"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
	TotalPrice        string        `json:"total_price"`
	FinancialStatus   string        `json:"financial_status"`
	FulfillmentStatus string        `json:"fulfillment_status"`
	ShippingLines     []RawShipping `json:"shipping_lines"`
	Customer          *RawCustomer  `json:"customer"`
	LineItems         []RawLineItem `json:"line_items"`
}

// RawShipping is one shipping line of a raw order.
type RawShipping struct {
	Price string `json:"price"`
}

// RawCustomer is the customer snapshot embedded in a raw order.
type RawCustomer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// RawLineItem is one line item of a raw order.
type RawLineItem struct {
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Vendor   string `json:"vendor"`
}

// NormalizeOrder maps one raw order to the canonical shape. Pure function:
// string amounts are coerced to float64, the customer snapshot is flattened,
// and unparseable amounts normalize to zero rather than failing the run.
func NormalizeOrder(raw RawOrder) entities.Order {
	order := entities.Order{
		ShopifyID:         raw.ID,
		OrderNumber:       orderNumber(raw),
		CreatedAt:         raw.CreatedAt,
		UpdatedAt:         raw.UpdatedAt,
		TotalPrice:        parseAmount(raw.TotalPrice),
		ShippingPrice:     shippingTotal(raw.ShippingLines),
		FinancialStatus:   raw.FinancialStatus,
		FulfillmentStatus: raw.FulfillmentStatus,
	}

	if raw.Customer != nil {
		order.CustomerShopifyID = raw.Customer.ID
		order.CustomerName = strings.TrimSpace(raw.Customer.FirstName + " " + raw.Customer.LastName)
		order.CustomerEmail = raw.Customer.Email
	}

	for _, item := range raw.LineItems {
		order.Items = append(order.Items, entities.OrderItem{
			SKU:      item.SKU,
			Name:     item.Title,
			Quantity: item.Quantity,
			Price:    parseAmount(item.Price),
			Vendor:   item.Vendor,
		})
	}

	return order
}

func orderNumber(raw RawOrder) string {
	if raw.Name != "" {
		return raw.Name
	}
	if raw.OrderNumber != 0 {
		return "#" + strconv.Itoa(raw.OrderNumber)
	}
	return ""
}

func shippingTotal(lines []RawShipping) float64 {
	var total float64
	for _, line := range lines {
		total += parseAmount(line.Price)
	}
	return total
}

func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || amount < 0 {
		return 0
	}
	return amount
}
