package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/pkg/auth"
	"github.com/floripafacil/backend/pkg/logger"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// RequireAuth validates the bearer token and attaches the rebuilt Principal
// to the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "missing or invalid authorization header")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := auth.Parse(raw, jwtSecret)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "invalid authorization token", response.CodeInvalidToken)
				return
			}

			role, _ := domain.ParseRole(claims.Role)
			principal := &domain.Principal{
				UserID:      claims.Sub,
				Name:        claims.Name,
				Role:        role,
				Permissions: domain.ParsePermissions(claims.Permissions),
			}

			ctx := context.WithValue(r.Context(), ctxPrincipal, principal)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on one catalog permission. The evaluator
// is fail-closed, so a missing principal (route mounted without RequireAuth)
// denies rather than panics.
func RequirePermission(perm domain.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !domain.Can(Principal(r), perm) {
				response.Forbidden(w, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Principal returns the authenticated principal, or nil on public routes.
func Principal(r *http.Request) *domain.Principal {
	v := r.Context().Value(ctxPrincipal)
	if v == nil {
		return nil
	}
	return v.(*domain.Principal)
}
