package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/georgemunganga/tradeboard-backend/internal/modules/customer"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/inventory"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/order"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/payment"
)

const (
	recentOrderLimit      = 4
	monthLabelLayout      = "Jan"
	uncategorizedCategory = "Uncategorized"
)

// ComputeTotals sums revenue and counts orders and products. RecentOrders is
// the first four orders exactly as given.
func ComputeTotals(orders []order.Order, products []inventory.Product) Totals {
	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.AmountOrZero())
	}
	n := min(len(orders), recentOrderLimit)
	recent := make([]order.Order, n)
	copy(recent, orders[:n])
	return Totals{
		TotalRevenue:  revenue.InexactFloat64(),
		TotalProducts: len(products),
		TotalOrders:   len(orders),
		RecentOrders:  recent,
	}
}

// ComputeMonthlyBuckets sums order amounts per abbreviated UTC month name.
// Buckets appear in the order their month is first seen. Orders without a
// creation time are skipped. The key is the label alone, so March 2023 and
// March 2024 share a bucket.
func ComputeMonthlyBuckets(orders []order.Order) []MonthlyPoint {
	var b buckets[decimal.Decimal]
	for _, o := range orders {
		if o.CreatedAt == nil {
			continue
		}
		label := o.CreatedAt.UTC().Format(monthLabelLayout)
		b.update(label, func(sum decimal.Decimal) decimal.Decimal { return sum.Add(o.AmountOrZero()) })
	}
	out := make([]MonthlyPoint, len(b.keys))
	for i, k := range b.keys {
		out[i] = MonthlyPoint{Name: k, Amount: b.values[i].InexactFloat64()}
	}
	return out
}

// ComputeDistribution counts orders per customer name. Names are compared
// byte for byte.
func ComputeDistribution(orders []order.Order) []DistributionPoint {
	var b buckets[int]
	for _, o := range orders {
		b.update(o.CustomerName, increment)
	}
	return countPoints(&b)
}

// ComputeFinancialSummary totals completed money in and out, and pending
// money in either direction. Failed payments count nowhere.
func ComputeFinancialSummary(received, made []payment.Payment) FinancialSummary {
	in, out, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range received {
		switch p.Status {
		case payment.StatusCompleted:
			in = in.Add(p.AmountOrZero())
		case payment.StatusPending:
			pending = pending.Add(p.AmountOrZero())
		}
	}
	for _, p := range made {
		switch p.Status {
		case payment.StatusCompleted:
			out = out.Add(p.AmountOrZero())
		case payment.StatusPending:
			pending = pending.Add(p.AmountOrZero())
		}
	}
	return FinancialSummary{
		TotalReceived: in.InexactFloat64(),
		TotalSpent:    out.InexactFloat64(),
		PendingTotal:  pending.InexactFloat64(),
	}
}

// ComputeStatusBreakdown counts orders per status. Unknown statuses are kept
// as their own label.
func ComputeStatusBreakdown(orders []order.Order) []DistributionPoint {
	var b buckets[int]
	for _, o := range orders {
		b.update(string(o.Status), increment)
	}
	return countPoints(&b)
}

// ComputeInventorySummary counts products per stock status and values the
// stock on hand at list price.
func ComputeInventorySummary(products []inventory.Product) InventorySummary {
	s := InventorySummary{TotalProducts: len(products)}
	value := decimal.Zero
	for _, p := range products {
		switch p.Status {
		case inventory.StatusInStock:
			s.InStockCount++
		case inventory.StatusLowStock:
			s.LowStockCount++
		case inventory.StatusOutOfStock:
			s.OutOfStockCount++
		default:
			s.OtherCount++
		}
		if p.Stock > 0 {
			value = value.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		}
	}
	s.StockValue = value.InexactFloat64()
	return s
}

// ComputeCategoryDistribution counts products per category.
func ComputeCategoryDistribution(products []inventory.Product) []DistributionPoint {
	var b buckets[int]
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = uncategorizedCategory
		}
		b.update(category, increment)
	}
	return countPoints(&b)
}

func ComputeCustomerSummary(customers []customer.Customer) CustomerSummary {
	s := CustomerSummary{TotalCustomers: len(customers)}
	spent := decimal.Zero
	for _, c := range customers {
		if c.Status == customer.StatusActive {
			s.ActiveCustomers++
		}
		spent = spent.Add(c.SpentOrZero())
	}
	s.TotalSpent = spent.InexactFloat64()
	return s
}

// SortNewestFirst returns a copy of orders sorted by creation time,
// descending. The sort is stable and orders without a creation time go last.
func SortNewestFirst(orders []order.Order) []order.Order {
	return sortByCreated(orders, func(a, b time.Time) bool { return a.After(b) })
}

// SortOldestFirst is SortNewestFirst in ascending order. Orders without a
// creation time still go last.
func SortOldestFirst(orders []order.Order) []order.Order {
	return sortByCreated(orders, func(a, b time.Time) bool { return a.Before(b) })
}

// ── helpers ──────────────────────────────────────────────────────────────────

func sortByCreated(orders []order.Order, before func(a, b time.Time) bool) []order.Order {
	out := make([]order.Order, len(orders))
	copy(out, orders)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return before(*a, *b)
	})
	return out
}

// buckets accumulates values per key, remembering first-seen key order.
type buckets[V any] struct {
	index  map[string]int
	keys   []string
	values []V
}

func (b *buckets[V]) update(key string, fn func(V) V) {
	if b.index == nil {
		b.index = map[string]int{}
	}
	i, ok := b.index[key]
	if !ok {
		var zero V
		i = len(b.keys)
		b.index[key] = i
		b.keys = append(b.keys, key)
		b.values = append(b.values, zero)
	}
	b.values[i] = fn(b.values[i])
}

func increment(n int) int { return n + 1 }

func countPoints(b *buckets[int]) []DistributionPoint {
	out := make([]DistributionPoint, len(b.keys))
	for i, k := range b.keys {
		out[i] = DistributionPoint{Name: k, Value: b.values[i]}
	}
	return out
}
