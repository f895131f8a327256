package auth

import (
	"net/http"
	"strings"

	"github.com/georgemunganga/tradeboard-backend/internal/identity"
)

// Middleware resolves the bearer token into an identity on the request
// context and rejects requests without a valid one.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
				return
			}
			id, err := svc.ParseToken(strings.TrimSpace(token))
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), id)))
		})
	}
}

// RequireOwner lets through only identities that have onboarded a vendor or
// supplier business. It must run after Middleware.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identity.OwnerFromContext(r.Context()); !ok {
			respond(w, http.StatusForbidden, map[string]string{"error": "no business account for this user; onboard first"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
