// Package api implements the corkboard REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/starford/corkboard/internal/auth"
	"github.com/starford/corkboard/internal/metrics"
	"github.com/starford/corkboard/internal/models"
)

type ctxKey struct{}

// identityFrom returns the caller attached by AuthMiddleware, or nil.
func identityFrom(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(ctxKey{}).(*models.Identity)
	return id
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// AuthMiddleware resolves an optional "Authorization: Bearer <token>" header
// into an identity on the request context. Requests without a valid token
// pass through anonymously; RequireIdentity rejects them where needed.
func AuthMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, "authenticate", err)
				return
			}
			if id == nil {
				metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

// RequireIdentity rejects requests that carry no valid token.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identityFrom(r.Context()) == nil {
			msg := "Access token required"
			if bearerToken(r) != "" {
				msg = "Invalid or expired token"
			}
			writeJSON(w, http.StatusUnauthorized, errorBody(msg))
			return
		}
		next.ServeHTTP(w, r)
	})
}
