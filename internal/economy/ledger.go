// internal/economy/ledger.go

// Package economy abstracts the currency source. The default implementation
// keeps wallets in the engine's own database; deployments that already run an
// economy plugin can swap in a bridge-backed Ledger.
package economy

import "context"

// Ledger moves currency between actor accounts. Amounts are always
// non-negative; Debit fails rather than driving a balance below zero.
type Ledger interface {
	Balance(ctx context.Context, ownerID string) (int64, error)
	Debit(ctx context.Context, ownerID string, amount int64) error
	Credit(ctx context.Context, ownerID string, amount int64) error
}
