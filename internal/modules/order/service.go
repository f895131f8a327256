package order

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// Service defines the order management business logic.
type Service interface {
	// Create records an order for the owner. Status defaults to processing.
	Create(ctx context.Context, owner identity.Owner, req CreateOrderRequest) (*Order, error)

	// Get retrieves one of the owner's orders.
	Get(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Order, error)

	// List returns the owner's orders newest first, optionally filtered by status.
	List(ctx context.Context, owner identity.Owner, status string) ([]Order, error)

	// UpdateStatus advances an order along the allowed transitions.
	UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, req UpdateStatusRequest) (*Order, error)
}

type service struct {
	repo     Repository
	notifier identity.ChangeNotifier
	log      *logger.Logger
}

// NewService creates a new order service. notifier, when set, is told about
// every successful write.
func NewService(repo Repository, notifier identity.ChangeNotifier, log *logger.Logger) Service {
	return &service{repo: repo, notifier: notifier, log: log.With("service", "OrderService")}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[Status][]Status{
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, owner identity.Owner, req CreateOrderRequest) (*Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrInvalid)
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	if req.Items <= 0 {
		return nil, fmt.Errorf("%w: items must be at least 1", ErrInvalid)
	}

	status := StatusProcessing
	if req.Status != "" {
		status = Status(strings.ToLower(req.Status))
		if !status.Known() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalid, req.Status)
		}
	}

	vendorID, supplierID := owner.Refs()
	o := &Order{
		ID:           uuid.New(),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Amount:       decimal.NewNullDecimal(req.Amount.Round(2)),
		Items:        req.Items,
		Status:       status,
		VendorID:     vendorID,
		SupplierID:   supplierID,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.log.Debug("order created", "owner", owner.Key(), "order_id", o.ID, "amount", o.AmountOrZero().String())
	s.changed(ctx, owner)
	return o, nil
}

func (s *service) Get(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, owner, id)
}

func (s *service) List(ctx context.Context, owner identity.Owner, status string) ([]Order, error) {
	return s.repo.ListByOwner(ctx, owner, strings.ToLower(status))
}

func (s *service) UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, req UpdateStatusRequest) (*Order, error) {
	o, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	newStatus := Status(strings.ToLower(req.Status))
	if !CanTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidTransition, o.Status, newStatus)
	}

	if err := s.repo.UpdateStatus(ctx, owner, id, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	s.log.Info("order status changed", "owner", owner.Key(), "order_id", id, "status", newStatus)
	s.changed(ctx, owner)
	return o, nil
}

func (s *service) changed(ctx context.Context, owner identity.Owner) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Invalidate(ctx, owner); err != nil {
		s.log.Warn("failed to invalidate stats", "owner", owner.Key(), "error", err)
	}
}
