package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Shubham-rawat0/chatApp/internal/core/domain"
)

type identityKeyType struct{}

// IdentityKey carries the verified auth identity for the request.
var IdentityKey = identityKeyType{}

// TokenValidator verifies a bearer credential and returns the auth identity
// it encodes.
type TokenValidator interface {
	ValidateToken(token string) (*domain.AuthIdentity, error)
}

func AuthMiddleware(tokenSvc TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}
			ident, err := tokenSvc.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), IdentityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the verified auth identity set by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (*domain.AuthIdentity, bool) {
	ident, ok := ctx.Value(IdentityKey).(*domain.AuthIdentity)
	return ident, ok && ident != nil
}
