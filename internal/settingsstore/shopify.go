package settingsstore

import (
	"os"
	"strconv"
	"time"

	"github.com/a94tkh14/magazzino/internal/config"
	"github.com/a94tkh14/magazzino/internal/entities"
)

// ShopConfig is the effective Shopify shop configuration.
type ShopConfig struct {
	Domain      string `json:"shop_domain"`
	AccessToken string `json:"access_token"`
	APIVersion  string `json:"api_version"`
}

// ShopConfigInfo includes source information for each field. The token is
// masked for display.
type ShopConfigInfo struct {
	Domain       string `json:"shop_domain"`
	DomainSource string `json:"shop_domain_source"` // "database", "environment", "default"

	Token       string `json:"access_token"` // Masked for display
	TokenSource string `json:"access_token_source"`
	HasToken    bool   `json:"has_token"`

	APIVersion       string `json:"api_version"`
	APIVersionSource string `json:"api_version_source"`
}

// OrderSyncStatus represents the last sync run summary.
type OrderSyncStatus struct {
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	Status       string     `json:"status,omitempty"` // "success", "failed", "cancelled", ""
	Message      string     `json:"message,omitempty"`
	OrdersSynced int        `json:"orders_synced,omitempty"`
}

// GetShopDomain returns the shop domain (database > env > "").
func (s *SettingsStore) GetShopDomain() string {
	setting, err := s.db.GetSetting(entities.SettingKeyShopifyDomain)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if envVal := os.Getenv("SHOPIFY_SHOP_DOMAIN"); envVal != "" {
		return envVal
	}
	return ""
}

// SetShopDomain saves the shop domain to database.
func (s *SettingsStore) SetShopDomain(domain string) error {
	return s.db.SetSetting(entities.SettingKeyShopifyDomain, domain)
}

// GetAccessToken returns the Admin API access token (database > env > "").
func (s *SettingsStore) GetAccessToken() string {
	setting, err := s.db.GetSetting(entities.SettingKeyShopifyToken)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if envVal := os.Getenv("SHOPIFY_ACCESS_TOKEN"); envVal != "" {
		return envVal
	}
	return ""
}

// SetAccessToken saves the access token to database.
func (s *SettingsStore) SetAccessToken(token string) error {
	return s.db.SetSetting(entities.SettingKeyShopifyToken, token)
}

// GetAPIVersion returns the Admin API version (database > env > default).
func (s *SettingsStore) GetAPIVersion() string {
	setting, err := s.db.GetSetting(entities.SettingKeyShopifyAPIVersion)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if envVal := os.Getenv("SHOPIFY_API_VERSION"); envVal != "" {
		return envVal
	}
	return config.DefaultAPIVersion
}

// SetAPIVersion saves the API version to database.
func (s *SettingsStore) SetAPIVersion(version string) error {
	return s.db.SetSetting(entities.SettingKeyShopifyAPIVersion, version)
}

// HasShopCredentials reports whether both domain and token are configured
// from any source. Ingestion runs require this to be true.
func (s *SettingsStore) HasShopCredentials() bool {
	return s.GetShopDomain() != "" && s.GetAccessToken() != ""
}

// GetShopConfig returns the effective shop configuration.
func (s *SettingsStore) GetShopConfig() ShopConfig {
	return ShopConfig{
		Domain:      s.GetShopDomain(),
		AccessToken: s.GetAccessToken(),
		APIVersion:  s.GetAPIVersion(),
	}
}

// GetShopConfigInfo returns the configuration with source information.
func (s *SettingsStore) GetShopConfigInfo() ShopConfigInfo {
	token := s.GetAccessToken()

	return ShopConfigInfo{
		Domain:           s.GetShopDomain(),
		DomainSource:     s.settingSource(entities.SettingKeyShopifyDomain, "SHOPIFY_SHOP_DOMAIN"),
		Token:            maskToken(token),
		TokenSource:      s.settingSource(entities.SettingKeyShopifyToken, "SHOPIFY_ACCESS_TOKEN"),
		HasToken:         token != "",
		APIVersion:       s.GetAPIVersion(),
		APIVersionSource: s.settingSource(entities.SettingKeyShopifyAPIVersion, "SHOPIFY_API_VERSION"),
	}
}

// ClearShopSettings clears all database overrides, reverting to env/default.
func (s *SettingsStore) ClearShopSettings() error {
	keys := []string{
		entities.SettingKeyShopifyDomain,
		entities.SettingKeyShopifyToken,
		entities.SettingKeyShopifyAPIVersion,
	}
	for _, key := range keys {
		if err := s.db.DeleteSetting(key); err != nil {
			// Ignore not found errors
			continue
		}
	}
	return nil
}

// GetOrderSyncEnabled returns whether periodic sync is enabled
// (database > env > default).
func (s *SettingsStore) GetOrderSyncEnabled() bool {
	setting, err := s.db.GetSetting(entities.SettingKeyOrderSyncEnabled)
	if err == nil && setting.Value != "" {
		return setting.Value == "true" || setting.Value == "1"
	}
	if envVal := os.Getenv("ORDER_SYNC_ENABLED"); envVal != "" {
		return envVal == "true" || envVal == "1"
	}
	return false
}

// SetOrderSyncEnabled saves the enabled setting to database.
func (s *SettingsStore) SetOrderSyncEnabled(enabled bool) error {
	return s.db.SetSetting(entities.SettingKeyOrderSyncEnabled, strconv.FormatBool(enabled))
}

// GetOrderSyncSchedule returns the cron schedule (database > env > default).
func (s *SettingsStore) GetOrderSyncSchedule() string {
	setting, err := s.db.GetSetting(entities.SettingKeyOrderSyncSchedule)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if envVal := os.Getenv("ORDER_SYNC_SCHEDULE"); envVal != "" {
		return envVal
	}
	return "0 */6 * * *"
}

// SetOrderSyncSchedule saves the schedule to database.
func (s *SettingsStore) SetOrderSyncSchedule(schedule string) error {
	return s.db.SetSetting(entities.SettingKeyOrderSyncSchedule, schedule)
}

// GetOrderSyncStatus returns the last sync run summary.
func (s *SettingsStore) GetOrderSyncStatus() OrderSyncStatus {
	status := OrderSyncStatus{}

	if setting, err := s.db.GetSetting(entities.SettingKeyOrderSyncLastAt); err == nil && setting.Value != "" {
		if ts, err := time.Parse(time.RFC3339, setting.Value); err == nil {
			status.LastSyncAt = &ts
		}
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyOrderSyncLastStatus); err == nil {
		status.Status = setting.Value
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyOrderSyncLastMessage); err == nil {
		status.Message = setting.Value
	}
	if setting, err := s.db.GetSetting(entities.SettingKeyOrderSyncOrdersSynced); err == nil && setting.Value != "" {
		if count, err := strconv.Atoi(setting.Value); err == nil {
			status.OrdersSynced = count
		}
	}

	return status
}

// SetOrderSyncStatus updates the last sync run summary.
func (s *SettingsStore) SetOrderSyncStatus(status, message string, ordersSynced int) error {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := s.db.SetSetting(entities.SettingKeyOrderSyncLastAt, now); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyOrderSyncLastStatus, status); err != nil {
		return err
	}
	if err := s.db.SetSetting(entities.SettingKeyOrderSyncLastMessage, message); err != nil {
		return err
	}
	return s.db.SetSetting(entities.SettingKeyOrderSyncOrdersSynced, strconv.Itoa(ordersSynced))
}

// GetOrderCacheTTLDays returns the local cache TTL (database > env > default).
func (s *SettingsStore) GetOrderCacheTTLDays() int {
	setting, err := s.db.GetSetting(entities.SettingKeyOrderCacheTTLDays)
	if err == nil && setting.Value != "" {
		if days, err := strconv.Atoi(setting.Value); err == nil && days > 0 {
			return days
		}
	}
	if envVal := os.Getenv("ORDER_CACHE_TTL_DAYS"); envVal != "" {
		if days, err := strconv.Atoi(envVal); err == nil && days > 0 {
			return days
		}
	}
	return 7
}

func (s *SettingsStore) settingSource(key, envVar string) string {
	setting, err := s.db.GetSetting(key)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return "environment"
	}
	return "default"
}
