package account

import (
	"context"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

// Repository defines the interface for vendor/supplier profile storage.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, owner identity.Owner) (*Account, error)
	GetByUserID(ctx context.Context, role identity.Role, userID uuid.UUID) (*Account, error)
}
