package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// Service defines payment business logic.
type Service interface {
	Record(ctx context.Context, owner identity.Owner, req RecordPaymentRequest) (*Payment, error)
	Get(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Payment, error)
	List(ctx context.Context, owner identity.Owner, direction Direction) ([]Payment, error)
	UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, req UpdateStatusRequest) (*Payment, error)
}

type service struct {
	repo     Repository
	notifier identity.ChangeNotifier
	log      *logger.Logger
}

func NewService(repo Repository, notifier identity.ChangeNotifier, log *logger.Logger) Service {
	return &service{repo: repo, notifier: notifier, log: log.With("service", "PaymentService")}
}

func (s *service) Record(ctx context.Context, owner identity.Owner, req RecordPaymentRequest) (*Payment, error) {
	if err := owner.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !req.Direction.Valid() {
		return nil, fmt.Errorf("%w: payment_type must be received or made", ErrInvalid)
	}
	switch req.Method {
	case MethodBankTransfer, MethodMobileMoney, MethodCash:
	default:
		return nil, fmt.Errorf("%w: unsupported payment method %q", ErrInvalid, req.Method)
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrInvalid)
	}
	status := req.Status
	if status == "" {
		status = StatusCompleted
	}
	vendorID, supplierID := owner.Refs()
	p := &Payment{
		ID:            uuid.New(),
		Method:        req.Method,
		Status:        status,
		Direction:     req.Direction,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		RecipientName: strings.TrimSpace(req.RecipientName),
		Category:      req.Category,
		Reference:     req.Reference,
		PaymentDate:   req.PaymentDate,
		VendorID:      vendorID,
		SupplierID:    supplierID,
	}
	p.Amount.Decimal, p.Amount.Valid = req.Amount.Round(2), true
	if p.Counterparty() == "" {
		if p.Direction == DirectionMade {
			return nil, fmt.Errorf("%w: recipient_name is required for payments made", ErrInvalid)
		}
		return nil, fmt.Errorf("%w: customer_name is required for payments received", ErrInvalid)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}
	s.log.Info("payment recorded", "owner", owner.Key(), "payment_id", p.ID, "direction", p.Direction, "status", p.Status)
	s.changed(ctx, owner)
	return p, nil
}

func (s *service) Get(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Payment, error) {
	return s.repo.GetByID(ctx, owner, id)
}

func (s *service) List(ctx context.Context, owner identity.Owner, direction Direction) ([]Payment, error) {
	if direction != "" && !direction.Valid() {
		return nil, fmt.Errorf("%w: payment_type must be received or made", ErrInvalid)
	}
	return s.repo.ListByOwner(ctx, owner, direction)
}

func (s *service) UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, req UpdateStatusRequest) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if p.Status != StatusPending || (req.Status != StatusCompleted && req.Status != StatusFailed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, req.Status)
	}
	if err := s.repo.UpdateStatus(ctx, owner, id, req.Status); err != nil {
		return nil, err
	}
	p.Status = req.Status
	s.log.Info("payment status changed", "owner", owner.Key(), "payment_id", id, "status", p.Status)
	s.changed(ctx, owner)
	return p, nil
}

func (s *service) changed(ctx context.Context, owner identity.Owner) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Invalidate(ctx, owner); err != nil {
		s.log.Warn("failed to invalidate stats", "owner", owner.Key(), "error", err)
	}
}
