// internal/models/wallet.go
package models

import (
	"time"
)

// Wallet backs the built-in currency ledger: one row per actor identity.
// Deployments that proxy to an external economy plugin never touch this
// table.
type Wallet struct {
	OwnerID   string    `json:"owner_id" gorm:"primaryKey;size:64"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }
