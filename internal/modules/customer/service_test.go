package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

type memRepo struct {
	customers []Customer
	createErr error
}

func (m *memRepo) Create(_ context.Context, c *Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.customers = append(m.customers, *c)
	return nil
}

func (m *memRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID, status string) ([]Customer, error) {
	var out []Customer
	for _, c := range m.customers {
		if c.SupplierID == supplierID && (status == "" || string(c.Status) == status) {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestVendorsHaveNoCustomers(t *testing.T) {
	svc := NewService(&memRepo{}, nil, logger.Nop())
	vendor := identity.NewOwner(identity.RoleVendor, uuid.New())

	_, err := svc.Add(context.Background(), vendor, AddCustomerRequest{Name: "Musa"})
	assert.ErrorIs(t, err, ErrSupplierOnly)
	_, err = svc.List(context.Background(), vendor, "")
	assert.ErrorIs(t, err, ErrSupplierOnly)
}

func TestAddAndFilterByStatus(t *testing.T) {
	svc := NewService(&memRepo{}, nil, logger.Nop())
	supplier := identity.NewOwner(identity.RoleSupplier, uuid.New())
	ctx := context.Background()

	c, err := svc.Add(ctx, supplier, AddCustomerRequest{
		Name:       "Musa Traders",
		Email:      " Musa@Example.com ",
		TotalSpent: decimal.RequireFromString("1500.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, "musa@example.com", c.Email)
	assert.Equal(t, supplier.ID, c.SupplierID)

	_, err = svc.Add(ctx, supplier, AddCustomerRequest{Name: "Dormant Ltd", Status: StatusInactive})
	require.NoError(t, err)
	_, err = svc.Add(ctx, supplier, AddCustomerRequest{Name: " "})
	assert.ErrorIs(t, err, ErrInvalid)

	active, err := svc.List(ctx, supplier, "active")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Musa Traders", active[0].Name)

	other := identity.NewOwner(identity.RoleSupplier, uuid.New())
	none, err := svc.List(ctx, other, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

type recorder struct{ owners []identity.Owner }

func (r *recorder) Invalidate(_ context.Context, owner identity.Owner) error {
	r.owners = append(r.owners, owner)
	return nil
}

func TestAddInvalidatesStats(t *testing.T) {
	rec := &recorder{}
	svc := NewService(&memRepo{}, rec, logger.Nop())
	supplier := identity.NewOwner(identity.RoleSupplier, uuid.New())

	_, err := svc.Add(context.Background(), supplier, AddCustomerRequest{Name: "Musa Traders"})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), supplier, AddCustomerRequest{Name: ""})
	require.Error(t, err)
	assert.Equal(t, []identity.Owner{supplier}, rec.owners)
}

func TestAddLogsWithServiceName(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(&memRepo{}, nil, &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	supplier := identity.NewOwner(identity.RoleSupplier, uuid.New())

	c, err := svc.Add(context.Background(), supplier, AddCustomerRequest{Name: "Musa Traders"})
	require.NoError(t, err)

	entries := logs.FilterMessage("customer added").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "CustomerService", fields["service"])
	assert.Equal(t, supplier.Key(), fields["owner"])
	assert.Equal(t, c.ID.String(), fields["customer_id"])
}
