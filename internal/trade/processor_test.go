package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclabs/buttonshop/internal/inventory"
	"github.com/arclabs/buttonshop/internal/models"
	"github.com/arclabs/buttonshop/internal/notify"
	"github.com/arclabs/buttonshop/internal/shoperr"
	"github.com/arclabs/buttonshop/internal/store"
)

type fakeStore struct {
	shops    map[string]*models.ShopListing
	records  []*models.ShopTransaction
	failSave bool
}

func newFakeStore(shops ...*models.ShopListing) *fakeStore {
	s := &fakeStore{shops: make(map[string]*models.ShopListing)}
	for _, shop := range shops {
		s.shops[shop.ShopUUID] = shop
	}
	return s
}

func (s *fakeStore) GetByUUID(ctx context.Context, shopUUID string) (*models.ShopListing, error) {
	shop, ok := s.shops[shopUUID]
	if !ok {
		return nil, shoperr.ErrShopNotFound
	}
	clone := *shop
	return &clone, nil
}

func (s *fakeStore) Save(ctx context.Context, shop *models.ShopListing) error {
	if s.failSave {
		return errors.New("save failed")
	}
	clone := *shop
	s.shops[shop.ShopUUID] = &clone
	return nil
}

func (s *fakeStore) RecordTransaction(ctx context.Context, rec *models.ShopTransaction) error {
	s.records = append(s.records, rec)
	return nil
}

type fakeLedger struct {
	balances map[string]int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{balances: make(map[string]int64)}
}

func (l *fakeLedger) Balance(ctx context.Context, ownerID string) (int64, error) {
	return l.balances[ownerID], nil
}

func (l *fakeLedger) Debit(ctx context.Context, ownerID string, amount int64) error {
	if l.balances[ownerID] < amount {
		return shoperr.ErrInsufficientFunds
	}
	l.balances[ownerID] -= amount
	return nil
}

func (l *fakeLedger) Credit(ctx context.Context, ownerID string, amount int64) error {
	l.balances[ownerID] += amount
	return nil
}

type fakeSettings struct {
	rate float64
}

func (s fakeSettings) TaxRate() float64 { return s.rate }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func sellShop(uuid string, price int64, stock int) *models.ShopListing {
	return &models.ShopListing{
		ShopUUID:  uuid,
		OwnerID:   "owner",
		OwnerName: "Owner",
		Kind:      models.ShopKindSell,
		Item:      models.ItemDescriptor{Type: "minecraft:diamond", Count: 1},
		UnitPrice: price,
		Balance:   int64(stock),
		Active:    true,
	}
}

func buyShop(uuid string, price, budget int64) *models.ShopListing {
	return &models.ShopListing{
		ShopUUID:  uuid,
		OwnerID:   "owner",
		OwnerName: "Owner",
		Kind:      models.ShopKindBuy,
		Item:      models.ItemDescriptor{Type: "minecraft:diamond", Count: 1},
		UnitPrice: price,
		Balance:   budget,
		Active:    true,
	}
}

func newProcessor(shops *fakeStore, ledger *fakeLedger, rate float64, registry *inventory.Registry) *Processor {
	log := quietLogger()
	return NewProcessor(shops, ledger, fakeSettings{rate: rate}, registry, notify.NewQueueNotifier(10, log), store.NewKeyedMutex(), log)
}

func TestTaxTruncates(t *testing.T) {
	assert.Equal(t, int64(1), Tax(30, 0.05))
	assert.Equal(t, int64(2), Tax(40, 0.05))
	assert.Equal(t, int64(0), Tax(19, 0.05))
	assert.Equal(t, int64(0), Tax(100, 0))
	assert.Equal(t, int64(0), Tax(0, 0.05))
}

func TestBuySettlesMoneyStockAndItems(t *testing.T) {
	shops := newFakeStore(sellShop("s1", 10, 5))
	ledger := newFakeLedger()
	ledger.balances["customer"] = 100

	registry := inventory.NewRegistry()
	registry.Put("customer", inventory.NewMemoryContainer(9))

	p := newProcessor(shops, ledger, 0.05, registry)
	result, err := p.Buy(context.Background(), "s1", Actor{ID: "customer", Name: "Customer"}, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(30), result.BasePrice)
	assert.Equal(t, int64(1), result.TaxAmount)
	assert.Equal(t, int64(31), result.TotalPrice)
	assert.Equal(t, int64(69), ledger.balances["customer"])
	assert.Equal(t, int64(30), ledger.balances["owner"])
	assert.Equal(t, int64(2), shops.shops["s1"].Balance)
	assert.True(t, shops.shops["s1"].Active)

	container, _ := registry.Get("customer")
	assert.Equal(t, 3, inventory.CountMatching(container, models.ItemDescriptor{Type: "minecraft:diamond", Count: 1}))

	require.Len(t, shops.records, 1)
	assert.Equal(t, int64(30), shops.records[0].TotalPrice)
	assert.Equal(t, int64(1), shops.records[0].TaxAmount)
}

func TestBuyInsufficientStock(t *testing.T) {
	shops := newFakeStore(sellShop("s1", 10, 2))
	ledger := newFakeLedger()
	ledger.balances["customer"] = 100

	registry := inventory.NewRegistry()
	registry.Put("customer", inventory.NewMemoryContainer(9))

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Buy(context.Background(), "s1", Actor{ID: "customer"}, 5)
	assert.ErrorIs(t, err, shoperr.ErrInsufficientStock)

	// Nothing moved.
	assert.Equal(t, int64(100), ledger.balances["customer"])
	assert.Equal(t, int64(2), shops.shops["s1"].Balance)
	assert.Empty(t, shops.records)
}

func TestBuyInsufficientFunds(t *testing.T) {
	shops := newFakeStore(sellShop("s1", 10, 5))
	ledger := newFakeLedger()
	ledger.balances["customer"] = 5

	registry := inventory.NewRegistry()
	registry.Put("customer", inventory.NewMemoryContainer(9))

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Buy(context.Background(), "s1", Actor{ID: "customer"}, 1)
	assert.ErrorIs(t, err, shoperr.ErrInsufficientFunds)
	assert.Equal(t, int64(5), ledger.balances["customer"])
}

func TestBuyDeactivatesAtZeroStock(t *testing.T) {
	shops := newFakeStore(sellShop("s1", 10, 2))
	ledger := newFakeLedger()
	ledger.balances["customer"] = 100

	registry := inventory.NewRegistry()
	registry.Put("customer", inventory.NewMemoryContainer(9))

	p := newProcessor(shops, ledger, 0, registry)
	_, err := p.Buy(context.Background(), "s1", Actor{ID: "customer"}, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(0), shops.shops["s1"].Balance)
	assert.False(t, shops.shops["s1"].Active)
}

func TestBuyContainerFullRevertsEverything(t *testing.T) {
	shops := newFakeStore(sellShop("s1", 10, 5))
	ledger := newFakeLedger()
	ledger.balances["customer"] = 100

	// One slot, already filled with something else.
	container := inventory.NewMemoryContainer(1)
	container.SetSlot(0, models.ItemDescriptor{Type: "minecraft:dirt", Count: 64})
	registry := inventory.NewRegistry()
	registry.Put("customer", container)

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Buy(context.Background(), "s1", Actor{ID: "customer"}, 3)
	assert.ErrorIs(t, err, shoperr.ErrContainerFull)

	// Full revert: money back on both sides, stock restored, log empty.
	assert.Equal(t, int64(100), ledger.balances["customer"])
	assert.Equal(t, int64(0), ledger.balances["owner"])
	assert.Equal(t, int64(5), shops.shops["s1"].Balance)
	assert.True(t, shops.shops["s1"].Active)
	assert.Empty(t, shops.records)
}

func TestBuyRejectsOwnShopAndInactive(t *testing.T) {
	shop := sellShop("s1", 10, 5)
	shops := newFakeStore(shop)
	ledger := newFakeLedger()
	registry := inventory.NewRegistry()
	registry.Put("owner", inventory.NewMemoryContainer(9))

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Buy(context.Background(), "s1", Actor{ID: "owner"}, 1)
	assert.ErrorIs(t, err, shoperr.ErrOwnShop)

	shop.Active = false
	shops.shops["s1"] = shop
	registry.Put("customer", inventory.NewMemoryContainer(9))
	ledger.balances["customer"] = 100
	_, err = p.Buy(context.Background(), "s1", Actor{ID: "customer"}, 1)
	assert.ErrorIs(t, err, shoperr.ErrShopInactive)
}

func TestSellSettlesPayoutBudgetAndCollection(t *testing.T) {
	shops := newFakeStore(buyShop("b1", 10, 100))
	ledger := newFakeLedger()

	container := inventory.NewMemoryContainer(9)
	container.SetSlot(0, models.ItemDescriptor{Type: "minecraft:diamond", Count: 10})
	registry := inventory.NewRegistry()
	registry.Put("seller", container)

	p := newProcessor(shops, ledger, 0.05, registry)
	result, err := p.Sell(context.Background(), "b1", Actor{ID: "seller", Name: "Seller"}, 4)
	require.NoError(t, err)

	// Base 40, tax 2, payout 38; budget 100 -> 60.
	assert.Equal(t, int64(40), result.BasePrice)
	assert.Equal(t, int64(2), result.TaxAmount)
	assert.Equal(t, int64(38), result.TotalPrice)
	assert.Equal(t, int64(38), ledger.balances["seller"])
	assert.Equal(t, int64(60), shops.shops["b1"].Balance)
	assert.True(t, shops.shops["b1"].Active)

	// Items left the seller and joined the collect pile.
	got, _ := registry.Get("seller")
	assert.Equal(t, 6, inventory.CountMatching(got, models.ItemDescriptor{Type: "minecraft:diamond", Count: 1}))
	require.Len(t, shops.shops["b1"].Collected, 1)
	assert.Equal(t, 4, shops.shops["b1"].Collected[0].Count)
	assert.NotNil(t, shops.shops["b1"].Collected[0].CollectedAt)
}

func TestSellBudgetExhausted(t *testing.T) {
	shops := newFakeStore(buyShop("b1", 10, 30))
	ledger := newFakeLedger()

	container := inventory.NewMemoryContainer(9)
	container.SetSlot(0, models.ItemDescriptor{Type: "minecraft:diamond", Count: 10})
	registry := inventory.NewRegistry()
	registry.Put("seller", container)

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Sell(context.Background(), "b1", Actor{ID: "seller"}, 4)
	assert.ErrorIs(t, err, shoperr.ErrBudgetExhausted)

	got, _ := registry.Get("seller")
	assert.Equal(t, 10, inventory.CountMatching(got, models.ItemDescriptor{Type: "minecraft:diamond", Count: 1}))
}

func TestSellInsufficientItems(t *testing.T) {
	shops := newFakeStore(buyShop("b1", 10, 100))
	ledger := newFakeLedger()

	container := inventory.NewMemoryContainer(9)
	container.SetSlot(0, models.ItemDescriptor{Type: "minecraft:diamond", Count: 2})
	registry := inventory.NewRegistry()
	registry.Put("seller", container)

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Sell(context.Background(), "b1", Actor{ID: "seller"}, 4)
	assert.ErrorIs(t, err, shoperr.ErrInsufficientItems)
	assert.Equal(t, int64(0), ledger.balances["seller"])
	assert.Equal(t, int64(100), shops.shops["b1"].Balance)
}

func TestSellDeactivatesWhenBudgetBelowUnitPrice(t *testing.T) {
	shops := newFakeStore(buyShop("b1", 10, 45))
	ledger := newFakeLedger()

	container := inventory.NewMemoryContainer(9)
	container.SetSlot(0, models.ItemDescriptor{Type: "minecraft:diamond", Count: 10})
	registry := inventory.NewRegistry()
	registry.Put("seller", container)

	p := newProcessor(shops, ledger, 0, registry)
	_, err := p.Sell(context.Background(), "b1", Actor{ID: "seller"}, 4)
	require.NoError(t, err)

	// Budget 45 - 40 = 5 < unit price 10: shop goes inactive.
	assert.Equal(t, int64(5), shops.shops["b1"].Balance)
	assert.False(t, shops.shops["b1"].Active)
}

func TestSellSaveFailureCompensates(t *testing.T) {
	shops := newFakeStore(buyShop("b1", 10, 100))
	shops.failSave = true
	ledger := newFakeLedger()

	container := inventory.NewMemoryContainer(9)
	container.SetSlot(0, models.ItemDescriptor{Type: "minecraft:diamond", Count: 10})
	registry := inventory.NewRegistry()
	registry.Put("seller", container)

	p := newProcessor(shops, ledger, 0.05, registry)
	_, err := p.Sell(context.Background(), "b1", Actor{ID: "seller"}, 4)
	require.Error(t, err)

	// Payout reclaimed and items handed back.
	assert.Equal(t, int64(0), ledger.balances["seller"])
	got, _ := registry.Get("seller")
	assert.Equal(t, 10, inventory.CountMatching(got, models.ItemDescriptor{Type: "minecraft:diamond", Count: 1}))
}

func TestTradeUnknownContainer(t *testing.T) {
	shops := newFakeStore(sellShop("s1", 10, 5))
	ledger := newFakeLedger()
	ledger.balances["customer"] = 100

	p := newProcessor(shops, ledger, 0.05, inventory.NewRegistry())
	_, err := p.Buy(context.Background(), "s1", Actor{ID: "customer"}, 1)
	assert.ErrorIs(t, err, shoperr.ErrContainerUnknown)
}
