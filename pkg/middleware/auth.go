package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pentshop/pentshop/pkg/auth"
	"github.com/pentshop/pentshop/pkg/response"
)

type claimsKey struct{}

// Auth validates the Bearer token and stores the claims in the request
// context for downstream handlers.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromCtx returns the token claims stored by Auth, or nil.
func ClaimsFromCtx(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(claimsKey{}).(*auth.Claims); ok {
		return c
	}
	return nil
}
