// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthForbidden    = "auth.forbidden"

	// Shops
	KeyShopCreated     = "shop.created"
	KeyShopDeleted     = "shop.deleted"
	KeyShopRestocked   = "shop.restocked"
	KeyShopBudgetAdded = "shop.budget_added"
	KeyShopCollected   = "shop.collected"
	KeyShopOutOfStock  = "shop.out_of_stock"
	KeyShopBudgetLow   = "shop.budget_low"
	KeyShopNotFound    = "shop.not_found"
	KeyShopInactive    = "shop.inactive"
	KeyShopLimit       = "shop.limit_reached"
	KeyShopOccupied    = "shop.position_occupied"
	KeyShopNotOwner    = "shop.not_owner"
	KeyShopOwnShop     = "shop.own_shop"

	// Trades
	KeyTradeBought        = "trade.bought"
	KeyTradeSold          = "trade.sold"
	KeyTradeSoldOwner     = "trade.sold_owner"
	KeyTradeBoughtOwner   = "trade.bought_owner"
	KeyTradeNoStock       = "trade.insufficient_stock"
	KeyTradeNoFunds       = "trade.insufficient_funds"
	KeyTradeNoItems       = "trade.insufficient_items"
	KeyTradeContainerFull = "trade.container_full"
	KeyTradeNoBudget      = "trade.budget_exhausted"

	// Admin
	KeyAdminCleared   = "admin.cleared"
	KeyAdminReloaded  = "admin.reloaded"
	KeyAdminSettingOK = "admin.setting_updated"

	// Validation
	KeyValidationFailed = "validation.failed"
	KeyInvalidRequest   = "validation.invalid_request"

	// System
	KeySystemError       = "system.error"
	KeySystemMaintenance = "system.maintenance"
	KeyRateLimitExceeded = "system.rate_limit_exceeded"
)
