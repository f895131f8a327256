package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrInvalid           = errors.New("invalid payment")
)

// Direction says whether money came in or went out.
type Direction string

const (
	DirectionReceived Direction = "received"
	DirectionMade     Direction = "made"
)

func (d Direction) Valid() bool { return d == DirectionReceived || d == DirectionMade }

// Method is how a payment was settled.
type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodMobileMoney  Method = "mobile_money"
	MethodCash         Method = "cash"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Payment is a manually recorded money movement.
type Payment struct {
	ID            uuid.UUID           `json:"id"`
	Amount        decimal.NullDecimal `json:"amount"`
	Method        Method              `json:"method"`
	Status        Status              `json:"status"`
	Direction     Direction           `json:"payment_type"`
	CustomerName  string              `json:"customer_name,omitempty"`
	RecipientName string              `json:"recipient_name,omitempty"`
	Category      string              `json:"category,omitempty"`
	Reference     string              `json:"reference,omitempty"`
	PaymentDate   *time.Time          `json:"payment_date,omitempty"`
	CreatedAt     *time.Time          `json:"created_at,omitempty"`
	VendorID      *uuid.UUID          `json:"vendor_id,omitempty"`
	SupplierID    *uuid.UUID          `json:"supplier_id,omitempty"`
}

// AmountOrZero treats a missing amount as zero.
func (p Payment) AmountOrZero() decimal.Decimal {
	if !p.Amount.Valid {
		return decimal.Zero
	}
	return p.Amount.Decimal
}

// Counterparty is the customer for received payments and the recipient for
// payments made.
func (p Payment) Counterparty() string {
	if p.Direction == DirectionMade {
		return p.RecipientName
	}
	return p.CustomerName
}

// RecordPaymentRequest holds data for recording a payment.
type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Method        Method          `json:"method" validate:"required,oneof=bank_transfer mobile_money cash"`
	Status        Status          `json:"status" validate:"omitempty,oneof=completed pending failed"`
	Direction     Direction       `json:"payment_type" validate:"required,oneof=received made"`
	CustomerName  string          `json:"customer_name"`
	RecipientName string          `json:"recipient_name"`
	Category      string          `json:"category"`
	Reference     string          `json:"reference"`
	PaymentDate   *time.Time      `json:"payment_date"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=completed pending failed"`
}
