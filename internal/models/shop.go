// internal/models/shop.go
package models

import (
	"time"
)

// Position identifies one block in the world.
type Position struct {
	X         int    `json:"x" gorm:"not null;uniqueIndex:idx_shops_position"`
	Y         int    `json:"y" gorm:"not null;uniqueIndex:idx_shops_position"`
	Z         int    `json:"z" gorm:"not null;uniqueIndex:idx_shops_position"`
	Dimension string `json:"dimension" gorm:"size:64;not null;uniqueIndex:idx_shops_position"`
}

// ShopListing is a player shop bound to one world position. For sell shops
// Balance is the remaining item stock; for buy shops it is the remaining
// currency budget and Collected accumulates items awaiting owner pickup.
type ShopListing struct {
	BaseModel
	ShopUUID  string   `json:"shop_uuid" gorm:"size:36;not null;uniqueIndex"`
	OwnerID   string   `json:"owner_id" gorm:"size:64;not null;index"`
	OwnerName string   `json:"owner_name" gorm:"size:64;not null"`
	Kind      ShopKind `json:"kind" gorm:"type:varchar(10);not null;default:'sell'"`

	Position

	ChunkX int `json:"chunk_x" gorm:"not null;index:idx_shops_chunk"`
	ChunkZ int `json:"chunk_z" gorm:"not null;index:idx_shops_chunk"`

	Item      ItemDescriptor `json:"item" gorm:"type:text;not null"`
	Quantity  int            `json:"quantity" gorm:"not null"`
	UnitPrice int64          `json:"unit_price" gorm:"not null"`
	Balance   int64          `json:"balance" gorm:"not null"`
	Collected DescriptorList `json:"collected_items,omitempty" gorm:"type:text"`
	Active    bool           `json:"active" gorm:"not null;default:true;index"`

	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
}

func (ShopListing) TableName() string { return "button_shops" }

func (s *ShopListing) IsSell() bool { return s.Kind == ShopKindSell }

// ShouldDeactivate reports whether the listing can no longer trade: a sell
// shop with no stock, or a buy shop whose budget cannot cover one more unit.
func (s *ShopListing) ShouldDeactivate() bool {
	if s.IsSell() {
		return s.Balance <= 0
	}
	return s.Balance < s.UnitPrice
}

// ChunkIndexEntry is the secondary spatial index: one row per chunk that has
// ever contained a shop. Counts are maintained incrementally and rows are
// never deleted, so a count of 0 is a valid state.
type ChunkIndexEntry struct {
	ChunkX    int    `json:"chunk_x" gorm:"primaryKey;autoIncrement:false"`
	ChunkZ    int    `json:"chunk_z" gorm:"primaryKey;autoIncrement:false"`
	Dimension string `json:"dimension" gorm:"size:64;primaryKey"`
	ShopCount int    `json:"shop_count" gorm:"not null;default:0"`
}

func (ChunkIndexEntry) TableName() string { return "chunk_index" }
