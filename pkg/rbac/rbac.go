// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/pentshop/pentshop/pkg/middleware"
	"github.com/pentshop/pentshop/pkg/response"
)

// HasRole returns middleware that allows access only to users with one
// of the given roles. Must be wired after middleware.Auth.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := middleware.ClaimsFromCtx(r.Context())
			if claims == nil || !allowed[claims.Role] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest blocks authenticated users (useful for login/register).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.ClaimsFromCtx(r.Context()) != nil {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
