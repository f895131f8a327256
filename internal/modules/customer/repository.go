package customer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines customer data storage. Customers always belong to a
// supplier.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, status string) ([]Customer, error)
}
