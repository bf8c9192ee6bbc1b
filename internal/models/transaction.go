// internal/models/transaction.go
package models

// ShopTransaction is the append-only trade log. Rows are never updated or
// deleted by the engine; CreatedAt is the transaction timestamp.
type ShopTransaction struct {
	BaseModel
	ShopID           int64  `json:"shop_id" gorm:"not null;index"`
	CounterpartyID   string `json:"counterparty_id" gorm:"size:64;not null;index"`
	CounterpartyName string `json:"counterparty_name" gorm:"size:64;not null"`
	Quantity         int    `json:"quantity" gorm:"not null"`
	UnitPrice        int64  `json:"unit_price" gorm:"not null"`
	TotalPrice       int64  `json:"total_price" gorm:"not null"`
	TaxAmount        int64  `json:"tax_amount" gorm:"not null;default:0"`
}

func (ShopTransaction) TableName() string { return "shop_transactions" }
