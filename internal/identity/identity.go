// Package identity carries the resolved viewer through a request: who the
// user is and which business entity (vendor or supplier) scopes their data.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role is the kind of business entity a user operates as.
type Role string

const (
	RoleVendor   Role = "vendor"
	RoleSupplier Role = "supplier"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts "vendor" or "supplier" in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleVendor:
		return RoleVendor, nil
	case RoleSupplier:
		return RoleSupplier, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Owner is the business entity every record is scoped to.
type Owner struct {
	Role Role      `json:"role"`
	ID   uuid.UUID `json:"id"`
}

func NewOwner(role Role, id uuid.UUID) Owner { return Owner{Role: role, ID: id} }

func (o Owner) Validate() error {
	if o.Role != RoleVendor && o.Role != RoleSupplier {
		return fmt.Errorf("%w: %q", ErrUnknownRole, o.Role)
	}
	if o.ID == uuid.Nil {
		return errors.New("owner id is required")
	}
	return nil
}

// Column is the foreign-key column that scopes rows to this owner. The
// value comes from a closed set and is safe to splice into SQL.
func (o Owner) Column() string {
	if o.Role == RoleSupplier {
		return "supplier_id"
	}
	return "vendor_id"
}

// Key identifies the owner in cache keys and log fields.
func (o Owner) Key() string {
	return string(o.Role) + ":" + o.ID.String()
}

// Owns reports whether a row carrying the given vendor/supplier foreign keys
// belongs to o.
func (o Owner) Owns(vendorID, supplierID *uuid.UUID) bool {
	ref := vendorID
	if o.Role == RoleSupplier {
		ref = supplierID
	}
	return ref != nil && *ref == o.ID
}

// Refs returns the (vendor_id, supplier_id) pair to store on a new row.
func (o Owner) Refs() (vendorID, supplierID *uuid.UUID) {
	id := o.ID
	if o.Role == RoleSupplier {
		return nil, &id
	}
	return &id, nil
}

// Identity is the authenticated viewer.
type Identity struct {
	UserID  uuid.UUID  `json:"user_id"`
	Email   string     `json:"email,omitempty"`
	Role    Role       `json:"role"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"` // nil until the user has onboarded a business
}

// Owner returns the business scope of the identity, if it has one.
func (id *Identity) Owner() (Owner, bool) {
	if id == nil || id.OwnerID == nil {
		return Owner{}, false
	}
	return Owner{Role: id.Role, ID: *id.OwnerID}, true
}

type ctxKey struct{}

func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

// OwnerFromContext is a shortcut for handlers that only need the scope.
func OwnerFromContext(ctx context.Context) (Owner, bool) {
	id, ok := FromContext(ctx)
	if !ok {
		return Owner{}, false
	}
	return id.Owner()
}

// ChangeNotifier is told when an owner's business data changes so derived
// views (the stats snapshot cache) can be dropped.
type ChangeNotifier interface {
	Invalidate(ctx context.Context, owner Owner) error
}
