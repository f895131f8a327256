package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/httpx"
)

// Handler exposes payment HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/", h.record)                   // POST  /api/v1/payments
		r.Get("/", h.list)                      // GET   /api/v1/payments?payment_type=received
		r.Get("/{id}", h.get)                   // GET   /api/v1/payments/{id}
		r.Patch("/{id}/status", h.updateStatus) // PATCH /api/v1/payments/{id}/status
	})
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	var req RecordPaymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Record(r.Context(), owner, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	payments, err := h.service.List(r.Context(), owner, Direction(r.URL.Query().Get("payment_type")))
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, payments)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payment id"})
		return
	}
	p, err := h.service.Get(r.Context(), owner, id)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := identity.OwnerFromContext(r.Context())
	if !ok {
		respond(w, http.StatusForbidden, map[string]string{"error": "no business account"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": "invalid payment id"})
		return
	}
	var req UpdateStatusRequest
	if err := httpx.Decode(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateStatus(r.Context(), owner, id, req)
	if err != nil {
		respond(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, p)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
