package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/auth"
	"github.com/Dan9191/bank-cards/internal/models"
)

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(token string) (*auth.Principal, error)
}

// AuthMiddleware requires a valid bearer token and stores its principal in the request context.
func AuthMiddleware(parser TokenParser, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteError(w, r, log, apperror.New(apperror.KindUnauthenticated, "Authorization header required"))
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				WriteError(w, r, log, apperror.New(apperror.KindUnauthenticated, "Invalid authorization header format"))
				return
			}
			principal, err := parser.Parse(parts[1])
			if err != nil {
				WriteError(w, r, log, apperror.New(apperror.KindUnauthenticated, "Invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole rejects principals without role. It must run after AuthMiddleware.
func RequireRole(role models.Role, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				WriteError(w, r, log, apperror.New(apperror.KindUnauthenticated, "Authentication required"))
				return
			}
			if !principal.HasRole(role) {
				WriteError(w, r, log, apperror.New(apperror.KindForbidden, "Access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
