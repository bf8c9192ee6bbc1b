// internal/models/settings.go
package models

import (
	"time"
)

// ShopSetting is one persisted configuration entry. Values are stored as
// strings and parsed by the settings service, matching the generic key-value
// store the engine consumes.
type ShopSetting struct {
	Key         string    `json:"key" gorm:"primaryKey;size:64"`
	Value       string    `json:"value" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:255"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ShopSetting) TableName() string { return "shop_settings" }

// Well-known setting keys.
const (
	SettingTradeTaxRate      = "trade_tax_rate"
	SettingTradeTaxEnabled   = "trade_tax_enabled"
	SettingMaxShopsPerPlayer = "max_shops_per_player"
)
