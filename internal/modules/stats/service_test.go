package stats

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/customer"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/inventory"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/order"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/payment"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/cache"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// fakeStore is a DB stand-in returning fixed rows, counting calls.
type fakeStore struct {
	orders    []order.Order
	products  []inventory.Product
	payments  []payment.Payment
	customers []customer.Customer

	err   error
	calls atomic.Int32
	gate  chan struct{}
}

func (f *fakeStore) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, _ identity.Owner, _ string) ([]order.Order, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.orders, nil
}

type fakeProducts struct{ *fakeStore }

func (f fakeProducts) ListByOwner(ctx context.Context, _ identity.Owner, _ string) ([]inventory.Product, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.products, nil
}

type fakePayments struct{ *fakeStore }

func (f fakePayments) ListByOwner(ctx context.Context, _ identity.Owner, direction payment.Direction) ([]payment.Payment, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	var out []payment.Payment
	for _, p := range f.payments {
		if p.Direction == direction {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCustomers struct{ *fakeStore }

func (f fakeCustomers) ListBySupplier(ctx context.Context, _ uuid.UUID, _ string) ([]customer.Customer, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.customers, nil
}

func (f *fakeStore) sources() Sources {
	return Sources{Orders: f, Products: fakeProducts{f}, Payments: fakePayments{f}, Customers: fakeCustomers{f}}
}

// memCache is an in-process cache.Store that keeps values as-is.
type memCache struct {
	mu      sync.Mutex
	items   map[string]*Snapshot
	getErr  error
	deletes int
}

func newMemCache() *memCache { return &memCache{items: map[string]*Snapshot{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	s, ok := c.items[key]
	if !ok {
		return false, nil
	}
	*dest.(*Snapshot) = *s
	return true, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value.(*Snapshot)
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
		c.deletes++
	}
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Store = (*memCache)(nil)

func ownedRows(owner identity.Owner) *fakeStore {
	vendorID, supplierID := owner.Refs()
	return &fakeStore{
		orders: []order.Order{
			{ID: uuid.New(), CustomerName: "Old", Amount: amount("10"), CreatedAt: at("2024-01-10T00:00:00Z"), VendorID: vendorID, SupplierID: supplierID},
			{ID: uuid.New(), CustomerName: "New", Amount: amount("30"), CreatedAt: at("2024-03-10T00:00:00Z"), VendorID: vendorID, SupplierID: supplierID},
		},
		products: []inventory.Product{
			{ID: uuid.New(), Status: inventory.StatusLowStock, VendorID: vendorID, SupplierID: supplierID},
		},
		payments: []payment.Payment{
			{ID: uuid.New(), Direction: payment.DirectionReceived, Status: payment.StatusCompleted, Amount: amount("40"), VendorID: vendorID, SupplierID: supplierID},
			{ID: uuid.New(), Direction: payment.DirectionMade, Status: payment.StatusPending, Amount: amount("5"), VendorID: vendorID, SupplierID: supplierID},
		},
	}
}

func TestLoaderFetchFailure(t *testing.T) {
	owner := identity.NewOwner(identity.RoleVendor, uuid.New())
	store := ownedRows(owner)
	store.err = errors.New("connection refused")
	svc := NewService(NewLoader(store.sources(), nil, 0, logger.Nop()), "SLL", logger.Nop())

	totals, err := svc.Overview(context.Background(), owner)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Nil(t, totals)

	_, err = svc.Dashboard(context.Background(), owner)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestLoaderDropsForeignRows(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	owner := identity.NewOwner(identity.RoleVendor, uuid.New())
	stranger := uuid.New()

	store := ownedRows(owner)
	store.orders = append(store.orders, order.Order{ID: uuid.New(), CustomerName: "Leak", Amount: amount("1000"), VendorID: &stranger})
	store.orders = append(store.orders, order.Order{ID: uuid.New(), CustomerName: "Supplier row", Amount: amount("1000"), SupplierID: &owner.ID})

	snap, err := NewLoader(store.sources(), nil, 0, log).Load(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, snap.Orders, 2)
	for _, o := range snap.Orders {
		assert.NotEqual(t, "Leak", o.CustomerName)
	}
	require.Equal(t, 1, logs.FilterMessage("dropped rows of another owner").Len())
	assert.EqualValues(t, 2, logs.All()[0].ContextMap()["dropped"])
}

func TestLoaderCustomersOnlyForSuppliers(t *testing.T) {
	vendor := identity.NewOwner(identity.RoleVendor, uuid.New())
	store := ownedRows(vendor)
	store.customers = []customer.Customer{{ID: uuid.New(), SupplierID: vendor.ID}}

	snap, err := NewLoader(store.sources(), nil, 0, logger.Nop()).Load(context.Background(), vendor)
	require.NoError(t, err)
	assert.Empty(t, snap.Customers)
	assert.EqualValues(t, 4, store.calls.Load())

	supplier := identity.NewOwner(identity.RoleSupplier, uuid.New())
	store = ownedRows(supplier)
	store.customers = []customer.Customer{
		{ID: uuid.New(), SupplierID: supplier.ID, Status: customer.StatusActive},
		{ID: uuid.New(), SupplierID: uuid.New()},
	}
	snap, err = NewLoader(store.sources(), nil, 0, logger.Nop()).Load(context.Background(), supplier)
	require.NoError(t, err)
	assert.Len(t, snap.Customers, 1)
	assert.EqualValues(t, 5, store.calls.Load())
}

func TestLoaderCacheHitSkipsDatabase(t *testing.T) {
	owner := identity.NewOwner(identity.RoleVendor, uuid.New())
	store := ownedRows(owner)
	mc := newMemCache()
	loader := NewLoader(store.sources(), mc, time.Minute, logger.Nop())

	first, err := loader.Load(context.Background(), owner)
	require.NoError(t, err)
	calls := store.calls.Load()

	second, err := loader.Load(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, calls, store.calls.Load())
	assert.Equal(t, first.Orders, second.Orders)

	require.NoError(t, loader.Invalidate(context.Background(), owner))
	_, err = loader.Load(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 2*calls, store.calls.Load())
}

func TestLoaderCacheErrorFallsBackToDatabase(t *testing.T) {
	owner := identity.NewOwner(identity.RoleSupplier, uuid.New())
	store := ownedRows(owner)
	mc := newMemCache()
	mc.getErr = errors.New("redis down")

	snap, err := NewLoader(store.sources(), mc, time.Minute, logger.Nop()).Load(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, snap.Orders, 2)
}

func TestLoaderCollapsesConcurrentLoads(t *testing.T) {
	owner := identity.NewOwner(identity.RoleVendor, uuid.New())
	store := ownedRows(owner)
	store.gate = make(chan struct{})
	loader := NewLoader(store.sources(), nil, 0, logger.Nop())

	var wg sync.WaitGroup
	results := make([]*Snapshot, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := loader.Load(context.Background(), owner)
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}
	// Wait for the leader to block on the four queries, then give the rest
	// time to join it.
	require.Eventually(t, func() bool { return store.calls.Load() == 4 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(store.gate)
	wg.Wait()

	assert.EqualValues(t, 4, store.calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestLoaderSharedLoadOutlivesFirstCaller(t *testing.T) {
	owner := identity.NewOwner(identity.RoleVendor, uuid.New())
	store := ownedRows(owner)
	store.gate = make(chan struct{})
	loader := NewLoader(store.sources(), nil, 0, logger.Nop())

	firstCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Load(firstCtx, owner)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return store.calls.Load() == 4 }, time.Second, time.Millisecond)

	type result struct {
		snap *Snapshot
		err  error
	}
	second := make(chan result, 1)
	go func() {
		snap, err := loader.Load(context.Background(), owner)
		second <- result{snap, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(store.gate)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.snap.Orders, 2)
	assert.EqualValues(t, 4, store.calls.Load(), "the second caller joined the first round of queries")
}

// jsonCache stores encoded bytes, the way the Redis store does.
type jsonCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *jsonCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *jsonCache) Close() error { return nil }

var _ cache.Store = (*jsonCache)(nil)

func TestCachedSnapshotAggregatesLikeFresh(t *testing.T) {
	prev := decimal.MarshalJSONWithoutQuotes
	decimal.MarshalJSONWithoutQuotes = true
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = prev })

	owner := identity.NewOwner(identity.RoleSupplier, uuid.New())
	store := ownedRows(owner)
	store.orders = append(store.orders, order.Order{ID: uuid.New(), CustomerName: "No amount", SupplierID: &owner.ID})
	store.customers = []customer.Customer{{ID: uuid.New(), SupplierID: owner.ID, Status: customer.StatusActive, TotalSpent: amount("19.99")}}
	loader := NewLoader(store.sources(), &jsonCache{items: map[string][]byte{}}, time.Minute, logger.Nop())
	ctx := context.Background()

	fresh, err := loader.Load(ctx, owner)
	require.NoError(t, err)
	calls := store.calls.Load()
	cached, err := loader.Load(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, calls, store.calls.Load(), "second load is served from the cache")
	require.NotSame(t, fresh, cached)

	freshTotals := ComputeTotals(SortNewestFirst(fresh.Orders), fresh.Products)
	cachedTotals := ComputeTotals(SortNewestFirst(cached.Orders), cached.Products)
	assert.Equal(t, freshTotals.TotalRevenue, cachedTotals.TotalRevenue)
	assert.Equal(t, freshTotals.TotalOrders, cachedTotals.TotalOrders)
	require.Len(t, cachedTotals.RecentOrders, len(freshTotals.RecentOrders))
	for i := range freshTotals.RecentOrders {
		assert.Equal(t, freshTotals.RecentOrders[i].ID, cachedTotals.RecentOrders[i].ID)
	}
	assert.False(t, cached.Orders[2].Amount.Valid, "a missing amount stays missing")

	assert.Equal(t, ComputeMonthlyBuckets(SortOldestFirst(fresh.Orders)), ComputeMonthlyBuckets(SortOldestFirst(cached.Orders)))
	assert.Equal(t, ComputeFinancialSummary(fresh.PaymentsReceived, fresh.PaymentsMade),
		ComputeFinancialSummary(cached.PaymentsReceived, cached.PaymentsMade))
	assert.Equal(t, ComputeCustomerSummary(fresh.Customers), ComputeCustomerSummary(cached.Customers))
	assert.Equal(t, owner, cached.Owner)
}

func TestServiceSortsBeforeAggregating(t *testing.T) {
	owner := identity.NewOwner(identity.RoleVendor, uuid.New())
	svc := NewService(NewLoader(ownedRows(owner).sources(), nil, 0, logger.Nop()), "SLL", logger.Nop())
	ctx := context.Background()

	totals, err := svc.Overview(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 40.0, totals.TotalRevenue)
	require.Len(t, totals.RecentOrders, 2)
	assert.Equal(t, "New", totals.RecentOrders[0].CustomerName)
	assert.Equal(t, "SLL", totals.Currency)

	monthly, err := svc.Monthly(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []MonthlyPoint{{Name: "Jan", Amount: 10}, {Name: "Mar", Amount: 30}}, monthly)

	fin, err := svc.Financial(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, &FinancialSummary{TotalReceived: 40, PendingTotal: 5}, fin)

	inv, err := svc.Inventory(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Summary.LowStockCount)
}

func TestServiceCustomersSupplierOnly(t *testing.T) {
	vendor := identity.NewOwner(identity.RoleVendor, uuid.New())
	store := ownedRows(vendor)
	svc := NewService(NewLoader(store.sources(), nil, 0, logger.Nop()), "SLL", logger.Nop())

	_, err := svc.Customers(context.Background(), vendor)
	assert.ErrorIs(t, err, ErrSupplierOnly)
	assert.Zero(t, store.calls.Load())

	d, err := svc.Dashboard(context.Background(), vendor)
	require.NoError(t, err)
	assert.Nil(t, d.Customers)
	assert.Equal(t, "SLL", d.Currency)
	assert.Equal(t, "SLL", d.Totals.Currency)

	supplier := identity.NewOwner(identity.RoleSupplier, uuid.New())
	store = ownedRows(supplier)
	store.customers = []customer.Customer{{SupplierID: supplier.ID, Status: customer.StatusActive, TotalSpent: amount("12")}}
	svc = NewService(NewLoader(store.sources(), nil, 0, logger.Nop()), "SLL", logger.Nop())

	cs, err := svc.Customers(context.Background(), supplier)
	require.NoError(t, err)
	assert.Equal(t, &CustomerSummary{TotalCustomers: 1, ActiveCustomers: 1, TotalSpent: 12}, cs)
}
