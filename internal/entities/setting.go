package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Shopify shop credentials
	SettingKeyShopifyDomain     = "shopify_shop_domain"
	SettingKeyShopifyToken      = "shopify_access_token"
	SettingKeyShopifyAPIVersion = "shopify_api_version"

	// Order sync settings
	SettingKeyOrderSyncEnabled      = "order_sync_enabled"
	SettingKeyOrderSyncSchedule     = "order_sync_schedule"
	SettingKeyOrderSyncLastAt       = "order_sync_last_at"
	SettingKeyOrderSyncLastStatus   = "order_sync_last_status"
	SettingKeyOrderSyncLastMessage  = "order_sync_last_message"
	SettingKeyOrderSyncOrdersSynced = "order_sync_orders_synced"

	// Order cache settings
	SettingKeyOrderCacheTTLDays = "order_cache_ttl_days"
)
