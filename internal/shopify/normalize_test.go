package shopify

import (
	"testing"
	"time"
)

func TestNormalizeOrder(t *testing.T) {
	createdAt := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	updatedAt := time.Date(2024, 3, 16, 8, 0, 0, 0, time.UTC)

	raw := RawOrder{
		ID:                450789469,
		Name:              "#1001",
		OrderNumber:       1001,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
		TotalPrice:        "199.65",
		FinancialStatus:   "paid",
		FulfillmentStatus: "fulfilled",
		ShippingLines: []RawShipping{
			{Price: "10.00"},
			{Price: "2.50"},
		},
		Customer: &RawCustomer{
			ID:        207119551,
			FirstName: "Bob",
			LastName:  "Norman",
			Email:     "bob.norman@example.com",
		},
		LineItems: []RawLineItem{
			{SKU: "IPOD-342", Title: "IPod Nano", Quantity: 1, Price: "199.00", Vendor: "Apple"},
		},
	}

	order := NormalizeOrder(raw)

	if order.ShopifyID != 450789469 {
		t.Errorf("ShopifyID = %d, want 450789469", order.ShopifyID)
	}
	if order.OrderNumber != "#1001" {
		t.Errorf("OrderNumber = %q, want %q", order.OrderNumber, "#1001")
	}
	if !order.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", order.CreatedAt, createdAt)
	}
	if !order.UpdatedAt.Equal(updatedAt) {
		t.Errorf("UpdatedAt = %v, want %v", order.UpdatedAt, updatedAt)
	}
	if order.TotalPrice != 199.65 {
		t.Errorf("TotalPrice = %v, want 199.65", order.TotalPrice)
	}
	if order.ShippingPrice != 12.50 {
		t.Errorf("ShippingPrice = %v, want 12.50", order.ShippingPrice)
	}
	if order.FinancialStatus != "paid" {
		t.Errorf("FinancialStatus = %q, want %q", order.FinancialStatus, "paid")
	}
	if order.CustomerShopifyID != 207119551 {
		t.Errorf("CustomerShopifyID = %d, want 207119551", order.CustomerShopifyID)
	}
	if order.CustomerName != "Bob Norman" {
		t.Errorf("CustomerName = %q, want %q", order.CustomerName, "Bob Norman")
	}
	if order.CustomerEmail != "bob.norman@example.com" {
		t.Errorf("CustomerEmail = %q", order.CustomerEmail)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.SKU != "IPOD-342" || item.Name != "IPod Nano" || item.Quantity != 1 || item.Price != 199.00 || item.Vendor != "Apple" {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestNormalizeOrderWithoutCustomer(t *testing.T) {
	order := NormalizeOrder(RawOrder{ID: 1, TotalPrice: "5.00"})

	if order.CustomerShopifyID != 0 || order.CustomerName != "" || order.CustomerEmail != "" {
		t.Errorf("expected empty customer snapshot, got %+v", order)
	}
}

func TestNormalizeOrderFallsBackToOrderNumber(t *testing.T) {
	order := NormalizeOrder(RawOrder{ID: 1, OrderNumber: 1042})

	if order.OrderNumber != "#1042" {
		t.Errorf("OrderNumber = %q, want %q", order.OrderNumber, "#1042")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"199.65", 199.65},
		{"0.00", 0},
		{"", 0},
		{"not-a-number", 0},
		{"-5.00", 0},
	}

	for _, tt := range tests {
		if got := parseAmount(tt.input); got != tt.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
