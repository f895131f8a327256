package customer

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/httpx"
)

// Handler exposes customer HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Post("/", h.addCustomer)  // POST /api/v1/customers
		r.Get("/", h.listCustomers) // GET  /api/v1/customers?status=active
	})
}

func (h *Handler) addCustomer(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	var req AddCustomerRequest
	if err := httpx.Decode(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.Add(r.Context(), owner, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, c)
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	customers, err := h.service.List(r.Context(), owner, r.URL.Query().Get("status"))
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, customers)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrSupplierOnly):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
