package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/httpx"
)

// Handler exposes inventory HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Post("/", h.addProduct)             // POST   /api/v1/products
		r.Get("/", h.listProducts)            // GET    /api/v1/products?category=Grains
		r.Get("/{id}", h.getProduct)          // GET    /api/v1/products/{id}
		r.Patch("/{id}/stock", h.updateStock) // PATCH  /api/v1/products/{id}/stock
		r.Delete("/{id}", h.deleteProduct)    // DELETE /api/v1/products/{id}
	})
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	var req AddProductRequest
	if err := httpx.Decode(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.AddProduct(r.Context(), owner, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	products, err := h.service.ListProducts(r.Context(), owner, r.URL.Query().Get("category"))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	p, err := h.service.GetProduct(r.Context(), owner, id)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	var req UpdateStockRequest
	if err := httpx.Decode(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateStock(r.Context(), owner, id, req.Stock)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	owner, id, ok := h.ownerAndID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), owner, id); err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request) (identity.Owner, uuid.UUID, bool) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return identity.Owner{}, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return identity.Owner{}, uuid.Nil, false
	}
	return owner, id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
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
