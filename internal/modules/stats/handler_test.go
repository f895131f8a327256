package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

type failingLoader struct{}

func (failingLoader) Load(context.Context, identity.Owner) (*Snapshot, error) {
	return nil, errors.Join(ErrFetchFailed, errors.New("timeout"))
}
func (failingLoader) Invalidate(context.Context, identity.Owner) error { return nil }

func serveStats(t *testing.T, svc Service, id *identity.Identity, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	req := httptest.NewRequest(method, path, nil)
	if id != nil {
		req = req.WithContext(identity.NewContext(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func vendorIdentity() (*identity.Identity, identity.Owner) {
	ownerID := uuid.New()
	id := &identity.Identity{UserID: uuid.New(), Role: identity.RoleVendor, OwnerID: &ownerID}
	owner, _ := id.Owner()
	return id, owner
}

func TestOverviewEndpointFieldNames(t *testing.T) {
	id, owner := vendorIdentity()
	svc := NewService(NewLoader(ownedRows(owner).sources(), nil, 0, logger.Nop()), "SLL", logger.Nop())

	rec := serveStats(t, svc, id, http.MethodGet, "/api/v1/stats/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, k := range []string{"totalRevenue", "totalProducts", "totalOrders", "recentOrders"} {
		assert.Contains(t, body, k)
	}
	assert.JSONEq(t, "40", string(body["totalRevenue"]))
	assert.JSONEq(t, `"SLL"`, string(body["currency"]))
}

func TestMonthlyAndDistributionEndpoints(t *testing.T) {
	id, owner := vendorIdentity()
	svc := NewService(NewLoader(ownedRows(owner).sources(), nil, 0, logger.Nop()), "SLL", logger.Nop())

	rec := serveStats(t, svc, id, http.MethodGet, "/api/v1/stats/monthly")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Jan","amount":10},{"name":"Mar","amount":30}]`, rec.Body.String())

	rec = serveStats(t, svc, id, http.MethodGet, "/api/v1/stats/customers/distribution")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"New","value":1},{"name":"Old","value":1}]`, rec.Body.String())
}

func TestStatsEndpointErrors(t *testing.T) {
	id, _ := vendorIdentity()

	rec := serveStats(t, NewService(failingLoader{}, "SLL", logger.Nop()), id, http.MethodGet, "/api/v1/stats/financial")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = serveStats(t, NewService(failingLoader{}, "SLL", logger.Nop()), id, http.MethodGet, "/api/v1/stats/customers")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	noOwner := &identity.Identity{UserID: uuid.New(), Role: identity.RoleSupplier}
	rec = serveStats(t, NewService(failingLoader{}, "SLL", logger.Nop()), noOwner, http.MethodGet, "/api/v1/stats/dashboard")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	id, owner := vendorIdentity()
	mc := newMemCache()
	mc.items[cacheKey(owner)] = &Snapshot{Owner: owner}
	svc := NewService(NewLoader(ownedRows(owner).sources(), mc, time.Minute, logger.Nop()), "SLL", logger.Nop())

	rec := serveStats(t, svc, id, http.MethodPost, "/api/v1/stats/refresh")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, mc.items)
	assert.Equal(t, 1, mc.deletes)
}
