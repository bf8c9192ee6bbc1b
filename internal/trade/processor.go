// internal/trade/processor.go

// Package trade settles shop transactions. Each settlement is a sequence of
// money and item legs; when a later leg fails, the processor compensates the
// completed legs in reverse before reporting the failure, so no trade ever
// half-applies.
package trade

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arclabs/buttonshop/internal/economy"
	"github.com/arclabs/buttonshop/internal/i18n"
	"github.com/arclabs/buttonshop/internal/inventory"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/notify"
	"github.com/arclabs/buttonshop/internal/shoperr"
	"github.com/arclabs/buttonshop/internal/store"
)

// ListingStore is the persistence surface the processor needs.
type ListingStore interface {
	GetByUUID(ctx context.Context, shopUUID string) (*models.ShopListing, error)
	Save(ctx context.Context, shop *models.ShopListing) error
	RecordTransaction(ctx context.Context, rec *models.ShopTransaction) error
}

// Settings exposes the runtime knobs trades depend on.
type Settings interface {
	TaxRate() float64
}

// Containers resolves an actor's current container.
type Containers interface {
	Get(actorID string) (*inventory.MemoryContainer, error)
}

// Actor identifies the player on the customer side of a trade.
type Actor struct {
	ID   string
	Name string
}

// Result reports a settled trade back to the bridge, including the customer's
// post-trade container so the bridge can apply it.
type Result struct {
	Shop       *models.ShopListing      `json:"shop"`
	Quantity   int                      `json:"quantity"`
	BasePrice  int64                    `json:"base_price"`
	TaxAmount  int64                    `json:"tax_amount"`
	TotalPrice int64                    `json:"total_price"`
	Container  []*models.ItemDescriptor `json:"container"`
}

// Processor settles buys and sells against listings. All mutation happens
// under the per-shop lock so concurrent customers at the same shop serialize.
type Processor struct {
	shops    ListingStore
	ledger   economy.Ledger
	settings Settings
	registry Containers
	notifier notify.Notifier
	locks    *store.KeyedMutex
	log      *logrus.Logger
}

func NewProcessor(shops ListingStore, ledger economy.Ledger, settings Settings, registry Containers, notifier notify.Notifier, locks *store.KeyedMutex, log *logrus.Logger) *Processor {
	return &Processor{
		shops:    shops,
		ledger:   ledger,
		settings: settings,
		registry: registry,
		notifier: notifier,
		locks:    locks,
		log:      log,
	}
}

// Tax computes the tax on a base amount, truncating fractional units in the
// player's favor.
func Tax(base int64, rate float64) int64 {
	if base <= 0 || rate <= 0 {
		return 0
	}
	return int64(float64(base) * rate)
}

// Buy settles a customer purchase from a sell shop: the customer pays base
// plus tax, the owner receives the base, stock drops and the goods land in
// the customer's container.
//
// Leg order is money first, items last. The item leg is the only one that
// depends on container geometry, so running it last keeps the compensation
// window for the fiddliest failure as wide as possible.
func (p *Processor) Buy(ctx context.Context, shopUUID string, customer Actor, quantity int) (*Result, error) {
	if quantity <= 0 {
		return nil, shoperr.ErrInvalidQuantity
	}

	p.locks.Lock(shopUUID)
	defer p.locks.Unlock(shopUUID)

	shop, err := p.shops.GetByUUID(ctx, shopUUID)
	if err != nil {
		return nil, err
	}
	if !shop.IsSell() || !shop.Active {
		return nil, shoperr.ErrShopInactive
	}
	if shop.OwnerID == customer.ID {
		return nil, shoperr.ErrOwnShop
	}
	if int64(quantity) > shop.Balance {
		return nil, shoperr.ErrInsufficientStock
	}

	container, err := p.registry.Get(customer.ID)
	if err != nil {
		return nil, err
	}

	base := shop.UnitPrice * int64(quantity)
	tax := Tax(base, p.settings.TaxRate())
	total := base + tax

	// Leg 1: take the customer's money.
	if err := p.ledger.Debit(ctx, customer.ID, total); err != nil {
		return nil, err
	}

	// Leg 2: pay the owner the base price. The tax is burned.
	if err := p.ledger.Credit(ctx, shop.OwnerID, base); err != nil {
		p.compensate(ctx, shopUUID, "refund customer", func() error {
			return p.ledger.Credit(ctx, customer.ID, total)
		})
		return nil, err
	}

	// Leg 3: decrement stock.
	now := time.Now()
	shop.Balance -= int64(quantity)
	shop.LastTransactionAt = &now
	if shop.ShouldDeactivate() {
		shop.Active = false
	}
	if err := p.shops.Save(ctx, shop); err != nil {
		p.compensate(ctx, shopUUID, "reclaim owner payout", func() error {
			return p.ledger.Debit(ctx, shop.OwnerID, base)
		})
		p.compensate(ctx, shopUUID, "refund customer", func() error {
			return p.ledger.Credit(ctx, customer.ID, total)
		})
		return nil, err
	}

	// Leg 4: hand over the goods, all or nothing.
	goods := shop.Item.WithCount(quantity)
	if _, err := inventory.InsertAll(container, []models.ItemDescriptor{goods}); err != nil {
		shop.Balance += int64(quantity)
		shop.Active = !shop.ShouldDeactivate()
		p.compensate(ctx, shopUUID, "restore stock", func() error {
			return p.shops.Save(ctx, shop)
		})
		p.compensate(ctx, shopUUID, "reclaim owner payout", func() error {
			return p.ledger.Debit(ctx, shop.OwnerID, base)
		})
		p.compensate(ctx, shopUUID, "refund customer", func() error {
			return p.ledger.Credit(ctx, customer.ID, total)
		})
		return nil, err
	}

	p.record(ctx, shop, customer, quantity, base, tax)
	p.notifier.Notify(customer.ID, i18n.KeyTradeBought, strconv.Itoa(quantity), shop.Item.Type, strconv.FormatInt(total, 10))
	p.notifier.Notify(shop.OwnerID, i18n.KeyTradeSoldOwner, customer.Name, strconv.Itoa(quantity), strconv.FormatInt(base, 10))
	if !shop.Active {
		p.notifier.Notify(shop.OwnerID, i18n.KeyShopOutOfStock, shop.ShopUUID)
	}

	return &Result{
		Shop:       shop,
		Quantity:   quantity,
		BasePrice:  base,
		TaxAmount:  tax,
		TotalPrice: total,
		Container:  container.Snapshot(),
	}, nil
}

// Sell settles a customer sale into a buy shop: matching items leave the
// customer's container, the customer is paid base minus tax out of the shop
// budget, and the goods join the owner's collect pile.
func (p *Processor) Sell(ctx context.Context, shopUUID string, customer Actor, quantity int) (*Result, error) {
	if quantity <= 0 {
		return nil, shoperr.ErrInvalidQuantity
	}

	p.locks.Lock(shopUUID)
	defer p.locks.Unlock(shopUUID)

	shop, err := p.shops.GetByUUID(ctx, shopUUID)
	if err != nil {
		return nil, err
	}
	if shop.IsSell() || !shop.Active {
		return nil, shoperr.ErrShopInactive
	}
	if shop.OwnerID == customer.ID {
		return nil, shoperr.ErrOwnShop
	}

	base := shop.UnitPrice * int64(quantity)
	if base > shop.Balance {
		return nil, shoperr.ErrBudgetExhausted
	}
	tax := Tax(base, p.settings.TaxRate())
	payout := base - tax

	container, err := p.registry.Get(customer.ID)
	if err != nil {
		return nil, err
	}

	// Leg 1: pull matching items out of the customer's container.
	if err := inventory.Remove(container, shop.Item, quantity); err != nil {
		return nil, err
	}

	// Leg 2: pay the customer out of the shop budget.
	if err := p.ledger.Credit(ctx, customer.ID, payout); err != nil {
		p.compensate(ctx, shopUUID, "return items", func() error {
			_, ierr := inventory.InsertAll(container, []models.ItemDescriptor{shop.Item.WithCount(quantity)})
			return ierr
		})
		return nil, err
	}

	// Leg 3: spend the budget and bank the goods for collection.
	now := time.Now()
	collected := shop.Item.WithCount(quantity)
	collected.CollectedAt = &now
	shop.Balance -= base
	shop.Collected = append(shop.Collected, collected)
	shop.LastTransactionAt = &now
	if shop.ShouldDeactivate() {
		shop.Active = false
	}
	if err := p.shops.Save(ctx, shop); err != nil {
		p.compensate(ctx, shopUUID, "reclaim customer payout", func() error {
			return p.ledger.Debit(ctx, customer.ID, payout)
		})
		p.compensate(ctx, shopUUID, "return items", func() error {
			_, ierr := inventory.InsertAll(container, []models.ItemDescriptor{shop.Item.WithCount(quantity)})
			return ierr
		})
		return nil, err
	}

	p.record(ctx, shop, customer, quantity, base, tax)
	p.notifier.Notify(customer.ID, i18n.KeyTradeSold, strconv.Itoa(quantity), shop.Item.Type, strconv.FormatInt(payout, 10))
	p.notifier.Notify(shop.OwnerID, i18n.KeyTradeBoughtOwner, customer.Name, strconv.Itoa(quantity), strconv.FormatInt(base, 10))
	if !shop.Active {
		p.notifier.Notify(shop.OwnerID, i18n.KeyShopBudgetLow, shop.ShopUUID)
	}

	return &Result{
		Shop:       shop,
		Quantity:   quantity,
		BasePrice:  base,
		TaxAmount:  tax,
		TotalPrice: payout,
		Container:  container.Snapshot(),
	}, nil
}

// record appends to the trade log; a logging failure never unwinds a settled
// trade.
func (p *Processor) record(ctx context.Context, shop *models.ShopListing, customer Actor, quantity int, base, tax int64) {
	rec := &models.ShopTransaction{
		ShopID:           shop.ID,
		CounterpartyID:   customer.ID,
		CounterpartyName: customer.Name,
		Quantity:         quantity,
		UnitPrice:        shop.UnitPrice,
		TotalPrice:       base,
		TaxAmount:        tax,
	}
	if err := p.shops.RecordTransaction(ctx, rec); err != nil {
		p.log.WithError(err).WithField("shop", shop.ShopUUID).Error("failed to record transaction")
	}
}

// compensate runs one undo step, logging instead of failing: by the time a
// compensation runs we are already unwinding, and a loud log line is all that
// is left when the undo itself breaks.
func (p *Processor) compensate(ctx context.Context, shopUUID, step string, fn func() error) {
	if err := fn(); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"shop": shopUUID,
			"step": step,
		}).Error("compensation step failed")
	}
}
