package customer

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrSupplierOnly = errors.New("customers are only tracked for suppliers")
	ErrInvalid      = errors.New("invalid customer")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Customer is a buyer a supplier sells to.
type Customer struct {
	ID          uuid.UUID           `json:"id"`
	SupplierID  uuid.UUID           `json:"supplier_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email,omitempty"`
	Phone       string              `json:"phone,omitempty"`
	Contact     string              `json:"contact,omitempty"`
	Location    string              `json:"location,omitempty"`
	Status      Status              `json:"status"`
	TotalOrders int                 `json:"total_orders"`
	TotalSpent  decimal.NullDecimal `json:"total_spent"`
	CreatedAt   *time.Time          `json:"created_at,omitempty"`
}

// SpentOrZero treats a missing total as zero.
func (c Customer) SpentOrZero() decimal.Decimal {
	if !c.TotalSpent.Valid {
		return decimal.Zero
	}
	return c.TotalSpent.Decimal
}

// AddCustomerRequest holds data for adding a customer.
type AddCustomerRequest struct {
	Name        string          `json:"name" validate:"required"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Phone       string          `json:"phone"`
	Contact     string          `json:"contact"`
	Location    string          `json:"location"`
	Status      Status          `json:"status" validate:"omitempty,oneof=active inactive"`
	TotalOrders int             `json:"total_orders" validate:"gte=0"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}
