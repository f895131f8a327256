package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
	"github.com/georgemunganga/tradeboard-backend/internal/platform/httpx"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the account endpoints. r must already run the auth
// middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Post("/", h.onboard)  // POST /api/v1/accounts
		r.Get("/me", h.getMine) // GET  /api/v1/accounts/me
	})
}

func (h *Handler) onboard(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	var req OnboardRequest
	if err := httpx.Decode(r, &req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	a, err := h.service.Onboard(r.Context(), id.UserID, id.Role, req)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, ErrAlreadyOnboarded):
			code = http.StatusConflict
		case errors.Is(err, identity.ErrUnknownRole):
			code = http.StatusBadRequest
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusCreated, a)
}

func (h *Handler) getMine(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}
	a, err := h.service.GetByUser(r.Context(), id.Role, id.UserID)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		respond(w, code, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, a)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
