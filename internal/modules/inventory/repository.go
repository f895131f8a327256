package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

// ProductRepository defines product data storage, scoped by owner.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Product, error)
	ListByOwner(ctx context.Context, owner identity.Owner, category string) ([]Product, error)
	UpdateStock(ctx context.Context, owner identity.Owner, id uuid.UUID, stock int, status StockStatus) error
	Delete(ctx context.Context, owner identity.Owner, id uuid.UUID) error
}
