// internal/shop/lifecycle.go

// Package shop manages listing lifecycle: creation, restock, budget refills,
// collection, deletion and the admin surface. Trades themselves live in the
// trade package; everything here is owner-side.
package shop

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arclabs/buttonshop/internal/economy"
	"github.com/arclabs/buttonshop/internal/i18n"
	"github.com/arclabs/buttonshop/internal/inventory"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/notify"
	"github.com/arclabs/buttonshop/internal/shoperr"
	"github.com/arclabs/buttonshop/internal/store"
)

// Listings is the persistence surface the lifecycle needs.
type Listings interface {
	Create(ctx context.Context, shop *models.ShopListing) error
	GetByUUID(ctx context.Context, shopUUID string) (*models.ShopListing, error)
	GetByPosition(ctx context.Context, pos models.Position) (*models.ShopListing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.ShopListing, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]models.ShopListing, int64, error)
	Save(ctx context.Context, shop *models.ShopListing) error
	Delete(ctx context.Context, shop *models.ShopListing) error
	ClearAll(ctx context.Context) (int64, error)
	RebuildChunkIndex(ctx context.Context) error
}

// Settings exposes the lifecycle's runtime knobs.
type Settings interface {
	MaxShopsPerPlayer() int
}

// Containers resolves an actor's current container.
type Containers interface {
	Get(actorID string) (*inventory.MemoryContainer, error)
}

// Owner identifies the acting player.
type Owner struct {
	ID   string
	Name string
}

// CreateRequest describes a new listing.
type CreateRequest struct {
	Kind      models.ShopKind
	Position  models.Position
	Item      models.ItemDescriptor
	UnitPrice int64
	// Stock is the initial stock for sell shops, extracted from the owner.
	Stock int
	// Budget is the initial currency budget for buy shops, debited from the
	// owner.
	Budget int64
}

// DeleteResult reports what a deletion handed back to the owner.
type DeleteResult struct {
	RefundedBudget  int64                    `json:"refunded_budget"`
	ReturnedItems   int                      `json:"returned_items"`
	UnreturnedItems int                      `json:"unreturned_items"`
	Container       []*models.ItemDescriptor `json:"container"`
}

// CollectResult reports a collection pass over a buy shop's banked items.
type CollectResult struct {
	Collected []models.ItemDescriptor  `json:"collected"`
	Remaining []models.ItemDescriptor  `json:"remaining"`
	Container []*models.ItemDescriptor `json:"container"`
}

// Lifecycle runs owner-side listing operations under the per-shop lock.
type Lifecycle struct {
	shops    Listings
	ledger   economy.Ledger
	settings Settings
	registry Containers
	notifier notify.Notifier
	locks    *store.KeyedMutex
	log      *logrus.Logger
}

func NewLifecycle(shops Listings, ledger economy.Ledger, settings Settings, registry Containers, notifier notify.Notifier, locks *store.KeyedMutex, log *logrus.Logger) *Lifecycle {
	return &Lifecycle{
		shops:    shops,
		ledger:   ledger,
		settings: settings,
		registry: registry,
		notifier: notifier,
		locks:    locks,
		log:      log,
	}
}

// Create opens a new listing. The funding leg runs before the insert: a sell
// shop extracts its initial stock from the owner, a buy shop debits its
// budget. If the insert then fails the funding leg is compensated.
func (l *Lifecycle) Create(ctx context.Context, owner Owner, req CreateRequest) (*models.ShopListing, error) {
	if !req.Kind.Valid() {
		return nil, shoperr.ErrInvalidItem
	}
	if err := req.Item.Validate(); err != nil {
		return nil, shoperr.ErrInvalidItem
	}
	if req.UnitPrice <= 0 {
		return nil, shoperr.ErrInvalidPrice
	}

	count, err := l.shops.CountByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if count >= int64(l.settings.MaxShopsPerPlayer()) {
		return nil, shoperr.ErrShopLimitReached
	}

	if _, err := l.shops.GetByPosition(ctx, req.Position); err == nil {
		return nil, shoperr.ErrPositionOccupied
	} else if !errors.Is(err, shoperr.ErrShopNotFound) {
		return nil, err
	}

	shop := &models.ShopListing{
		ShopUUID:  uuid.NewString(),
		OwnerID:   owner.ID,
		OwnerName: owner.Name,
		Kind:      req.Kind,
		Position:  req.Position,
		Item:      req.Item.WithCount(1),
		Quantity:  req.Item.Count,
		UnitPrice: req.UnitPrice,
		Active:    true,
	}

	switch req.Kind {
	case models.ShopKindSell:
		if req.Stock <= 0 {
			return nil, shoperr.ErrInvalidQuantity
		}
		container, err := l.registry.Get(owner.ID)
		if err != nil {
			return nil, err
		}
		if err := inventory.Remove(container, req.Item, req.Stock); err != nil {
			return nil, err
		}
		shop.Balance = int64(req.Stock)
		if err := l.shops.Create(ctx, shop); err != nil {
			if _, ierr := inventory.InsertAll(container, []models.ItemDescriptor{req.Item.WithCount(req.Stock)}); ierr != nil {
				l.log.WithError(ierr).WithField("owner", owner.ID).Error("failed to return stock after create failure")
			}
			return nil, err
		}

	case models.ShopKindBuy:
		if req.Budget < req.UnitPrice {
			return nil, shoperr.ErrInvalidPrice
		}
		if err := l.ledger.Debit(ctx, owner.ID, req.Budget); err != nil {
			return nil, err
		}
		shop.Balance = req.Budget
		if err := l.shops.Create(ctx, shop); err != nil {
			if cerr := l.ledger.Credit(ctx, owner.ID, req.Budget); cerr != nil {
				l.log.WithError(cerr).WithField("owner", owner.ID).Error("failed to refund budget after create failure")
			}
			return nil, err
		}
	}

	l.notifier.Notify(owner.ID, i18n.KeyShopCreated, string(shop.Kind), shop.ShopUUID)
	return shop, nil
}

// Restock moves more stock from the owner's container into a sell shop and
// reactivates it.
func (l *Lifecycle) Restock(ctx context.Context, owner Owner, shopUUID string, count int) (*models.ShopListing, error) {
	if count <= 0 {
		return nil, shoperr.ErrInvalidQuantity
	}

	l.locks.Lock(shopUUID)
	defer l.locks.Unlock(shopUUID)

	shop, err := l.ownedShop(ctx, owner, shopUUID)
	if err != nil {
		return nil, err
	}
	if !shop.IsSell() {
		return nil, shoperr.ErrShopInactive
	}

	container, err := l.registry.Get(owner.ID)
	if err != nil {
		return nil, err
	}
	if err := inventory.Remove(container, shop.Item, count); err != nil {
		return nil, err
	}

	shop.Balance += int64(count)
	shop.Active = true
	if err := l.shops.Save(ctx, shop); err != nil {
		if _, ierr := inventory.InsertAll(container, []models.ItemDescriptor{shop.Item.WithCount(count)}); ierr != nil {
			l.log.WithError(ierr).WithField("shop", shopUUID).Error("failed to return stock after restock failure")
		}
		return nil, err
	}

	l.notifier.Notify(owner.ID, i18n.KeyShopRestocked, strconv.Itoa(count), shop.ShopUUID)
	return shop, nil
}

// AddBudget tops up a buy shop's budget from the owner's funds and
// reactivates it when the budget covers at least one unit again.
func (l *Lifecycle) AddBudget(ctx context.Context, owner Owner, shopUUID string, amount int64) (*models.ShopListing, error) {
	if amount <= 0 {
		return nil, shoperr.ErrInvalidPrice
	}

	l.locks.Lock(shopUUID)
	defer l.locks.Unlock(shopUUID)

	shop, err := l.ownedShop(ctx, owner, shopUUID)
	if err != nil {
		return nil, err
	}
	if shop.IsSell() {
		return nil, shoperr.ErrShopInactive
	}

	if err := l.ledger.Debit(ctx, owner.ID, amount); err != nil {
		return nil, err
	}
	shop.Balance += amount
	shop.Active = !shop.ShouldDeactivate()
	if err := l.shops.Save(ctx, shop); err != nil {
		if cerr := l.ledger.Credit(ctx, owner.ID, amount); cerr != nil {
			l.log.WithError(cerr).WithField("shop", shopUUID).Error("failed to refund budget after top-up failure")
		}
		return nil, err
	}

	l.notifier.Notify(owner.ID, i18n.KeyShopBudgetAdded, strconv.FormatInt(amount, 10), shop.ShopUUID)
	return shop, nil
}

// Collect moves a buy shop's banked items into the owner's container.
// Delivery is per descriptor: whatever fits is handed over, whatever does not
// stays banked for the next attempt.
func (l *Lifecycle) Collect(ctx context.Context, owner Owner, shopUUID string) (*CollectResult, error) {
	l.locks.Lock(shopUUID)
	defer l.locks.Unlock(shopUUID)

	shop, err := l.ownedShop(ctx, owner, shopUUID)
	if err != nil {
		return nil, err
	}
	if len(shop.Collected) == 0 {
		return nil, shoperr.ErrNothingToCollect
	}

	container, err := l.registry.Get(owner.ID)
	if err != nil {
		return nil, err
	}

	var delivered, remaining []models.ItemDescriptor
	for _, d := range shop.Collected {
		left, err := inventory.Insert(container, d)
		if err != nil {
			remaining = append(remaining, d)
			continue
		}
		if left > 0 {
			got := d.WithCount(d.Count - left)
			delivered = append(delivered, got)
			remaining = append(remaining, d.WithCount(left))
			continue
		}
		delivered = append(delivered, d)
	}

	shop.Collected = remaining
	if err := l.shops.Save(ctx, shop); err != nil {
		return nil, err
	}

	if len(delivered) > 0 {
		l.notifier.Notify(owner.ID, i18n.KeyShopCollected, strconv.Itoa(models.DescriptorList(delivered).TotalCount()), shop.ShopUUID)
	}
	return &CollectResult{
		Collected: delivered,
		Remaining: remaining,
		Container: container.Snapshot(),
	}, nil
}

// Delete removes a listing and hands its residual value back to the owner:
// budget is refunded in full, stock and banked items are returned as far as
// the container allows. Item return is best effort; what cannot fit is
// reported, not kept.
func (l *Lifecycle) Delete(ctx context.Context, owner Owner, shopUUID string, operator bool) (*DeleteResult, error) {
	l.locks.Lock(shopUUID)
	defer l.locks.Unlock(shopUUID)

	shop, err := l.shops.GetByUUID(ctx, shopUUID)
	if err != nil {
		return nil, err
	}
	if !operator && shop.OwnerID != owner.ID {
		return nil, shoperr.ErrNotOwner
	}

	result := &DeleteResult{}
	container, cerr := l.registry.Get(shop.OwnerID)

	var returns []models.ItemDescriptor
	if shop.IsSell() && shop.Balance > 0 {
		returns = append(returns, shop.Item.WithCount(int(shop.Balance)))
	}
	if !shop.IsSell() {
		result.RefundedBudget = shop.Balance
		returns = append(returns, shop.Collected...)
	}

	if err := l.shops.Delete(ctx, shop); err != nil {
		return nil, err
	}

	if result.RefundedBudget > 0 {
		if err := l.ledger.Credit(ctx, shop.OwnerID, result.RefundedBudget); err != nil {
			l.log.WithError(err).WithField("shop", shopUUID).Error("failed to refund budget on delete")
			result.RefundedBudget = 0
		}
	}

	for _, d := range returns {
		if cerr != nil {
			result.UnreturnedItems += d.Count
			continue
		}
		left, err := inventory.Insert(container, d)
		if err != nil {
			result.UnreturnedItems += d.Count
			continue
		}
		result.ReturnedItems += d.Count - left
		result.UnreturnedItems += left
	}
	if cerr == nil {
		result.Container = container.Snapshot()
	}
	if result.UnreturnedItems > 0 {
		l.log.WithFields(logrus.Fields{
			"shop":       shopUUID,
			"unreturned": result.UnreturnedItems,
		}).Warn("items lost on shop delete, owner container full")
	}

	l.notifier.Notify(shop.OwnerID, i18n.KeyShopDeleted, shop.ShopUUID)
	return result, nil
}

// Get returns one listing.
func (l *Lifecycle) Get(ctx context.Context, shopUUID string) (*models.ShopListing, error) {
	return l.shops.GetByUUID(ctx, shopUUID)
}

// GetAt resolves the listing at a block position, used by the bridge on
// button interactions.
func (l *Lifecycle) GetAt(ctx context.Context, pos models.Position) (*models.ShopListing, error) {
	return l.shops.GetByPosition(ctx, pos)
}

// ListOwned returns the owner's listings.
func (l *Lifecycle) ListOwned(ctx context.Context, ownerID string) ([]models.ShopListing, error) {
	return l.shops.ListByOwner(ctx, ownerID)
}

// ListAll pages through every listing, for the admin surface.
func (l *Lifecycle) ListAll(ctx context.Context, offset, limit int) ([]models.ShopListing, int64, error) {
	return l.shops.ListAll(ctx, offset, limit)
}

// ClearAll wipes every listing. Residual stock and budgets are forfeit; this
// is the operator's emergency lever, not a refund path.
func (l *Lifecycle) ClearAll(ctx context.Context) (int64, error) {
	return l.shops.ClearAll(ctx)
}

// Reload rebuilds the chunk index from the listings table.
func (l *Lifecycle) Reload(ctx context.Context) error {
	return l.shops.RebuildChunkIndex(ctx)
}

func (l *Lifecycle) ownedShop(ctx context.Context, owner Owner, shopUUID string) (*models.ShopListing, error) {
	shop, err := l.shops.GetByUUID(ctx, shopUUID)
	if err != nil {
		return nil, err
	}
	if shop.OwnerID != owner.ID {
		return nil, shoperr.ErrNotOwner
	}
	return shop, nil
}
