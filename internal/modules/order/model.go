package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalid           = errors.New("invalid order")
)

// Status represents the lifecycle state of an order. The set is closed for
// writes, but rows may carry values written by older clients; readers must
// treat unknown values as opaque labels.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Known reports whether s is one of the statuses this service writes.
func (s Status) Known() bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is a sale recorded by a vendor or supplier. Exactly one of VendorID
// and SupplierID is set.
type Order struct {
	ID           uuid.UUID           `json:"id"`
	CustomerName string              `json:"customer_name"`
	Amount       decimal.NullDecimal `json:"amount"`
	Items        int                 `json:"items"`
	Status       Status              `json:"status"`
	VendorID     *uuid.UUID          `json:"vendor_id,omitempty"`
	SupplierID   *uuid.UUID          `json:"supplier_id,omitempty"`
	CreatedAt    *time.Time          `json:"created_at"`
	UpdatedAt    *time.Time          `json:"updated_at,omitempty"`
}

// AmountOrZero returns the order amount, treating a missing value as zero.
func (o *Order) AmountOrZero() decimal.Decimal {
	if !o.Amount.Valid {
		return decimal.Zero
	}
	return o.Amount.Decimal
}

// CreateOrderRequest is the payload for recording a new order.
type CreateOrderRequest struct {
	CustomerName string          `json:"customer_name" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Items        int             `json:"items" validate:"gte=1"`
	Status       string          `json:"status,omitempty" validate:"omitempty,oneof=processing shipped delivered cancelled"`
}

// UpdateStatusRequest is the payload for advancing an order's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
