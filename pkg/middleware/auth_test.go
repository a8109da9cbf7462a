package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pentshop/pentshop/pkg/auth"
	"github.com/pentshop/pentshop/pkg/middleware"
	"github.com/pentshop/pentshop/pkg/rbac"
)

func protected() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromCtx(r.Context())
		if claims == nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(claims.Email))
	})
}

func TestAuthMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)

	middleware.Auth(protected()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	middleware.Auth(protected()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthValidToken(t *testing.T) {
	token, err := auth.GenerateToken("u1", "grace@church.org", "user")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	middleware.Auth(protected()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "grace@church.org", rec.Body.String())
}

func TestHasRole(t *testing.T) {
	adminOnly := middleware.Auth(rbac.HasRole("admin")(protected()))

	userToken, err := auth.GenerateToken("u1", "grace@church.org", "user")
	require.NoError(t, err)
	adminToken, err := auth.GenerateToken("a1", "admin@pentshop.org", "admin")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cms/posts", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/cms/posts", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	adminOnly.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
