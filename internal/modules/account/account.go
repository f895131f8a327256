package account

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

var (
	ErrNotFound         = errors.New("account not found")
	ErrAlreadyOnboarded = errors.New("user already has a business account")
	ErrRoleMismatch     = errors.New("account role does not match user type")
)

// Account is a vendor or supplier business profile. Vendors live in the
// vendors table, suppliers in suppliers; both share this shape.
type Account struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Role         identity.Role `json:"role"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	BusinessName string        `json:"business_name,omitempty"`
	City         string        `json:"city,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Address      string        `json:"address,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (a *Account) Owner() identity.Owner {
	return identity.NewOwner(a.Role, a.ID)
}

// OnboardRequest is the payload for creating the caller's business profile.
type OnboardRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	BusinessName string `json:"business_name"`
	City         string `json:"city"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}
