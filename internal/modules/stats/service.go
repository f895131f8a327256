package stats

import (
	"context"
	"errors"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

var ErrSupplierOnly = errors.New("customer statistics are only available to suppliers")

// SnapshotLoader is implemented by *Loader.
type SnapshotLoader interface {
	Load(ctx context.Context, owner identity.Owner) (*Snapshot, error)
	Invalidate(ctx context.Context, owner identity.Owner) error
}

// Service computes dashboard statistics for an explicit owner.
type Service interface {
	Overview(ctx context.Context, owner identity.Owner) (*Totals, error)
	Monthly(ctx context.Context, owner identity.Owner) ([]MonthlyPoint, error)
	CustomerDistribution(ctx context.Context, owner identity.Owner) ([]DistributionPoint, error)
	Financial(ctx context.Context, owner identity.Owner) (*FinancialSummary, error)
	Inventory(ctx context.Context, owner identity.Owner) (*InventoryStats, error)
	Customers(ctx context.Context, owner identity.Owner) (*CustomerSummary, error)
	Dashboard(ctx context.Context, owner identity.Owner) (*Dashboard, error)
	// Refresh discards any cached snapshot so the next call reads the database.
	Refresh(ctx context.Context, owner identity.Owner) error
}

type service struct {
	loader   SnapshotLoader
	currency string
	log      *logger.Logger
}

// NewService creates the stats service. currency labels every money total
// it returns.
func NewService(loader SnapshotLoader, currency string, log *logger.Logger) Service {
	return &service{loader: loader, currency: currency, log: log.With("service", "StatsService")}
}

func (s *service) Overview(ctx context.Context, owner identity.Owner) (*Totals, error) {
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	t := ComputeTotals(SortNewestFirst(snap.Orders), snap.Products)
	t.Currency = s.currency
	return &t, nil
}

func (s *service) Monthly(ctx context.Context, owner identity.Owner) ([]MonthlyPoint, error) {
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return ComputeMonthlyBuckets(SortOldestFirst(snap.Orders)), nil
}

func (s *service) CustomerDistribution(ctx context.Context, owner identity.Owner) ([]DistributionPoint, error) {
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return ComputeDistribution(SortNewestFirst(snap.Orders)), nil
}

func (s *service) Financial(ctx context.Context, owner identity.Owner) (*FinancialSummary, error) {
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	f := ComputeFinancialSummary(snap.PaymentsReceived, snap.PaymentsMade)
	return &f, nil
}

func (s *service) Inventory(ctx context.Context, owner identity.Owner) (*InventoryStats, error) {
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &InventoryStats{
		Summary:    ComputeInventorySummary(snap.Products),
		Categories: ComputeCategoryDistribution(snap.Products),
	}, nil
}

func (s *service) Customers(ctx context.Context, owner identity.Owner) (*CustomerSummary, error) {
	if owner.Role != identity.RoleSupplier {
		return nil, ErrSupplierOnly
	}
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	c := ComputeCustomerSummary(snap.Customers)
	return &c, nil
}

func (s *service) Dashboard(ctx context.Context, owner identity.Owner) (*Dashboard, error) {
	snap, err := s.loader.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	newest := SortNewestFirst(snap.Orders)
	d := &Dashboard{
		Owner:                owner,
		Currency:             s.currency,
		Totals:               ComputeTotals(newest, snap.Products),
		Monthly:              ComputeMonthlyBuckets(SortOldestFirst(snap.Orders)),
		CustomerDistribution: ComputeDistribution(newest),
		OrderStatuses:        ComputeStatusBreakdown(newest),
		Financial:            ComputeFinancialSummary(snap.PaymentsReceived, snap.PaymentsMade),
		Inventory: InventoryStats{
			Summary:    ComputeInventorySummary(snap.Products),
			Categories: ComputeCategoryDistribution(snap.Products),
		},
		GeneratedAt: snap.TakenAt,
	}
	d.Totals.Currency = s.currency
	if owner.Role == identity.RoleSupplier {
		c := ComputeCustomerSummary(snap.Customers)
		d.Customers = &c
	}
	return d, nil
}

func (s *service) Refresh(ctx context.Context, owner identity.Owner) error {
	if err := s.loader.Invalidate(ctx, owner); err != nil {
		s.log.Warn("snapshot invalidation failed", "owner", owner.Key(), "error", err)
		return err
	}
	return nil
}
