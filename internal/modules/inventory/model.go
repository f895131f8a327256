package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("product not found")
	ErrInvalid  = errors.New("invalid product")
)

// StockStatus summarises how much of a product is on hand.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// DeriveStatus maps a stock level to its status. A threshold of 10 means ten
// units or fewer count as low stock.
func DeriveStatus(stock, lowStockThreshold int) StockStatus {
	switch {
	case stock <= 0:
		return StatusOutOfStock
	case stock <= lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Product is an item a vendor or supplier keeps in stock.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      StockStatus     `json:"status"`
	VendorID    *uuid.UUID      `json:"vendor_id,omitempty"`
	SupplierID  *uuid.UUID      `json:"supplier_id,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// AddProductRequest holds data for adding a product.
type AddProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// UpdateStockRequest sets the absolute stock level of a product.
type UpdateStockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}
