package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

// Repository defines data access for orders. Every call is scoped to an
// owner; rows of other owners behave as if they did not exist.
type Repository interface {
	// Create persists a new order.
	Create(ctx context.Context, o *Order) error

	// GetByID retrieves one order of the owner.
	GetByID(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Order, error)

	// ListByOwner returns the owner's orders, newest first, optionally
	// filtered by status.
	ListByOwner(ctx context.Context, owner identity.Owner, status string) ([]Order, error)

	// UpdateStatus moves an order to a new status.
	UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, status Status) error
}
