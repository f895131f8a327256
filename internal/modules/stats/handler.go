package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

// Handler exposes dashboard statistics. Every route reads the owner from
// the session.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/stats", func(r chi.Router) {
		r.Get("/overview", serve(h.service.Overview))                           // GET /api/v1/stats/overview
		r.Get("/monthly", serve(h.service.Monthly))                             // GET /api/v1/stats/monthly
		r.Get("/customers/distribution", serve(h.service.CustomerDistribution)) // GET /api/v1/stats/customers/distribution
		r.Get("/financial", serve(h.service.Financial))                         // GET /api/v1/stats/financial
		r.Get("/inventory", serve(h.service.Inventory))                         // GET /api/v1/stats/inventory
		r.Get("/customers", serve(h.service.Customers))                         // GET /api/v1/stats/customers
		r.Get("/dashboard", serve(h.service.Dashboard))                         // GET /api/v1/stats/dashboard
		r.Post("/refresh", h.refresh)                                           // POST /api/v1/stats/refresh
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	if err := h.service.Refresh(r.Context(), owner); err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// serve adapts a per-owner computation into a handler.
func serve[T any](compute func(context.Context, identity.Owner) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := identity.OwnerFromContext(r.Context())
		if !ok {
			respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
			return
		}
		out, err := compute(r.Context(), owner)
		if err != nil {
			respond(w, statusFor(err), map[string]string{"error": err.Error()})
			return
		}
		respond(w, http.StatusOK, out)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSupplierOnly):
		return http.StatusForbidden
	case errors.Is(err, ErrFetchFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, identity.ErrUnknownRole):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
