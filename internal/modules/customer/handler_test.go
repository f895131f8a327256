package customer

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/logger"
)

func TestAddCustomerStatusCodes(t *testing.T) {
	repo := &memRepo{}
	r := chi.NewRouter()
	NewHandler(NewService(repo, nil, logger.Nop())).RegisterRoutes(r)
	ownerID := uuid.New()
	supplier := &identity.Identity{UserID: uuid.New(), Role: identity.RoleSupplier, OwnerID: &ownerID}
	vendor := &identity.Identity{UserID: uuid.New(), Role: identity.RoleVendor, OwnerID: &ownerID}

	post := func(id *identity.Identity, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", strings.NewReader(body))
		req = req.WithContext(identity.NewContext(req.Context(), id))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, post(supplier, `{"name":"Musa Traders"}`))
	assert.Equal(t, http.StatusForbidden, post(vendor, `{"name":"Musa Traders"}`))
	assert.Equal(t, http.StatusBadRequest, post(supplier, `{"name":"Musa","total_spent":"-2"}`))

	repo.createErr = errors.New("pq: connection refused")
	assert.Equal(t, http.StatusInternalServerError, post(supplier, `{"name":"Musa Traders"}`))
}
