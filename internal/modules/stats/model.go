// Package stats derives dashboard metrics from an owner's orders, products,
// payments and customers.
//
// The Compute* functions are pure: they read the slices they are given, in
// the order given, and never sort, fetch or cache. Ordering is the caller's
// job (see SortNewestFirst and SortOldestFirst); the Service does it before
// every call.
package stats

import (
	"time"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/modules/order"
)

// Totals backs the headline cards of the dashboard.
type Totals struct {
	TotalRevenue  float64       `json:"totalRevenue"`
	TotalProducts int           `json:"totalProducts"`
	TotalOrders   int           `json:"totalOrders"`
	RecentOrders  []order.Order `json:"recentOrders"`
	// Currency is the unit of TotalRevenue. The Compute functions leave it
	// empty; the Service fills it from configuration.
	Currency string `json:"currency,omitempty"`
}

// MonthlyPoint is one bar of the revenue-per-month chart.
type MonthlyPoint struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// DistributionPoint is one slice of a pie chart.
type DistributionPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type FinancialSummary struct {
	TotalReceived float64 `json:"totalReceived"`
	TotalSpent    float64 `json:"totalSpent"`
	PendingTotal  float64 `json:"pendingTotal"`
}

// InventorySummary counts products by stock status. Products with a status
// outside the known set land in OtherCount.
type InventorySummary struct {
	TotalProducts   int     `json:"totalProducts"`
	InStockCount    int     `json:"inStockCount"`
	LowStockCount   int     `json:"lowStockCount"`
	OutOfStockCount int     `json:"outOfStockCount"`
	OtherCount      int     `json:"otherCount,omitempty"`
	StockValue      float64 `json:"stockValue"`
}

type CustomerSummary struct {
	TotalCustomers  int     `json:"totalCustomers"`
	ActiveCustomers int     `json:"activeCustomers"`
	TotalSpent      float64 `json:"totalSpent"`
}

// InventoryStats groups the inventory page's summary and category chart.
type InventoryStats struct {
	Summary    InventorySummary    `json:"summary"`
	Categories []DistributionPoint `json:"categories"`
}

// Dashboard is every metric computed from a single snapshot.
type Dashboard struct {
	Owner                identity.Owner      `json:"owner"`
	Currency             string              `json:"currency"`
	Totals               Totals              `json:"totals"`
	Monthly              []MonthlyPoint      `json:"monthly"`
	CustomerDistribution []DistributionPoint `json:"customerDistribution"`
	OrderStatuses        []DistributionPoint `json:"orderStatuses"`
	Financial            FinancialSummary    `json:"financial"`
	Inventory            InventoryStats      `json:"inventory"`
	Customers            *CustomerSummary    `json:"customers,omitempty"`
	GeneratedAt          time.Time           `json:"generatedAt"`
}
