// internal/models/common.go
package models

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type ShopKind string

const (
	ShopKindSell ShopKind = "sell"
	ShopKindBuy  ShopKind = "buy"
)

func (k ShopKind) Valid() bool {
	return k == ShopKindSell || k == ShopKindBuy
}

type ActorRole string

const (
	ActorRoleBridge   ActorRole = "bridge"
	ActorRoleOperator ActorRole = "operator"
)
