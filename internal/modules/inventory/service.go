package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

// Service defines inventory business logic.
type Service interface {
	AddProduct(ctx context.Context, owner identity.Owner, req AddProductRequest) (*Product, error)
	GetProduct(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, owner identity.Owner, category string) ([]Product, error)
	// UpdateStock sets the stock level and re-derives the stock status.
	UpdateStock(ctx context.Context, owner identity.Owner, id uuid.UUID, stock int) (*Product, error)
	DeleteProduct(ctx context.Context, owner identity.Owner, id uuid.UUID) error
}

type service struct {
	productRepo       ProductRepository
	lowStockThreshold int
	notifier          identity.ChangeNotifier
	log               *logger.Logger
}

// NewService creates a new inventory service. notifier may be nil.
func NewService(productRepo ProductRepository, lowStockThreshold int, notifier identity.ChangeNotifier, log *logger.Logger) Service {
	return &service{
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
		notifier:          notifier,
		log:               log.With("service", "InventoryService"),
	}
}

func (s *service) AddProduct(ctx context.Context, owner identity.Owner, req AddProductRequest) (*Product, error) {
	if err := owner.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalid)
	}
	vendorID, supplierID := owner.Refs()
	p := &Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Category:    strings.TrimSpace(req.Category),
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Status:      DeriveStatus(req.Stock, s.lowStockThreshold),
		VendorID:    vendorID,
		SupplierID:  supplierID,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist product: %w", err)
	}
	s.log.Info("product added", "owner", owner.Key(), "product_id", p.ID, "status", p.Status)
	s.changed(ctx, owner)
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Product, error) {
	return s.productRepo.GetByID(ctx, owner, id)
}

func (s *service) ListProducts(ctx context.Context, owner identity.Owner, category string) ([]Product, error) {
	return s.productRepo.ListByOwner(ctx, owner, category)
}

func (s *service) UpdateStock(ctx context.Context, owner identity.Owner, id uuid.UUID, stock int) (*Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalid)
	}
	p, err := s.productRepo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	status := DeriveStatus(stock, s.lowStockThreshold)
	if err := s.productRepo.UpdateStock(ctx, owner, id, stock, status); err != nil {
		return nil, err
	}
	if status != p.Status {
		s.log.Info("stock status changed", "owner", owner.Key(), "product_id", id, "from", p.Status, "to", status)
	}
	p.Stock, p.Status = stock, status
	s.changed(ctx, owner)
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, owner identity.Owner, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, owner, id); err != nil {
		return err
	}
	s.changed(ctx, owner)
	return nil
}

// changed drops derived views of the owner's data. The write has already
// succeeded, so a failure is only logged.
func (s *service) changed(ctx context.Context, owner identity.Owner) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Invalidate(ctx, owner); err != nil {
		s.log.Warn("failed to invalidate stats", "owner", owner.Key(), "error", err)
	}
}
