package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// Service defines customer business logic.
type Service interface {
	Add(ctx context.Context, owner identity.Owner, req AddCustomerRequest) (*Customer, error)
	List(ctx context.Context, owner identity.Owner, status string) ([]Customer, error)
}

type service struct {
	repo     Repository
	notifier identity.ChangeNotifier
	log      *logger.Logger
}

// NewService creates the customer service. New customers change the supplier
// dashboard, so notifier (optional) is told about them.
func NewService(repo Repository, notifier identity.ChangeNotifier, log *logger.Logger) Service {
	return &service{repo: repo, notifier: notifier, log: log.With("service", "CustomerService")}
}

func (s *service) Add(ctx context.Context, owner identity.Owner, req AddCustomerRequest) (*Customer, error) {
	if owner.Role != identity.RoleSupplier {
		return nil, ErrSupplierOnly
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if req.TotalSpent.IsNegative() || req.TotalOrders < 0 {
		return nil, fmt.Errorf("%w: totals must not be negative", ErrInvalid)
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	c := &Customer{
		ID:          uuid.New(),
		SupplierID:  owner.ID,
		Name:        name,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:       req.Phone,
		Contact:     req.Contact,
		Location:    req.Location,
		Status:      status,
		TotalOrders: req.TotalOrders,
	}
	c.TotalSpent.Decimal, c.TotalSpent.Valid = req.TotalSpent.Round(2), true
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist customer: %w", err)
	}
	s.log.Info("customer added", "owner", owner.Key(), "customer_id", c.ID, "status", c.Status)
	if s.notifier != nil {
		if err := s.notifier.Invalidate(ctx, owner); err != nil {
			s.log.Warn("failed to invalidate stats", "owner", owner.Key(), "error", err)
		}
	}
	return c, nil
}

func (s *service) List(ctx context.Context, owner identity.Owner, status string) ([]Customer, error) {
	if owner.Role != identity.RoleSupplier {
		return nil, ErrSupplierOnly
	}
	return s.repo.ListBySupplier(ctx, owner.ID, status)
}
