// internal/economy/wallet_ledger.go
package economy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/shoperr"
)

// WalletLedger is the built-in Ledger backed by the wallets table. Debits are
// guarded by a conditional update so two concurrent trades cannot overdraw
// the same account.
type WalletLedger struct {
	db *gorm.DB
}

func NewWalletLedger(db *gorm.DB) *WalletLedger {
	return &WalletLedger{db: db}
}

func (l *WalletLedger) Balance(ctx context.Context, ownerID string) (int64, error) {
	var w models.Wallet
	err := l.db.WithContext(ctx).First(&w, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load wallet: %w", err)
	}
	return w.Balance, nil
}

func (l *WalletLedger) Debit(ctx context.Context, ownerID string, amount int64) error {
	if amount < 0 {
		return shoperr.ErrInvalidPrice
	}
	if amount == 0 {
		return nil
	}
	res := l.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("owner_id = ? AND balance >= ?", ownerID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("debit wallet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return shoperr.ErrInsufficientFunds
	}
	return nil
}

func (l *WalletLedger) Credit(ctx context.Context, ownerID string, amount int64) error {
	if amount < 0 {
		return shoperr.ErrInvalidPrice
	}
	if amount == 0 {
		return nil
	}
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("wallets.balance + ?", amount)}),
	}).Create(&models.Wallet{OwnerID: ownerID, Balance: amount}).Error
	if err != nil {
		return fmt.Errorf("credit wallet: %w", err)
	}
	return nil
}
