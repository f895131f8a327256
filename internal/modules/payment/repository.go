package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

// Repository defines payment data storage, scoped by owner.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, owner identity.Owner, id uuid.UUID) (*Payment, error)
	// ListByOwner returns payments newest payment_date first. An empty
	// direction returns both directions.
	ListByOwner(ctx context.Context, owner identity.Owner, direction Direction) ([]Payment, error)
	UpdateStatus(ctx context.Context, owner identity.Owner, id uuid.UUID, status Status) error
}
