package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limo/internal/auth"
	"limo/internal/domain"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *auth.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewService("secret", "limo", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	admin := r.Group("/admin/:tenantId", RequireAuth(tokens), RequireTenantAdmin("tenantId"))
	admin.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})
	r.GET("/tenants", RequireAuth(tokens), RequireSuperAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, tokens
}

func tokenFor(t *testing.T, tokens *auth.Service, role domain.UserRole, tenantID string) string {
	t.Helper()
	token, err := tokens.GenerateToken(&domain.User{ID: "u-" + string(role), Role: role, TenantID: tenantID})
	require.NoError(t, err)
	return token
}

func TestRequireTenantAdmin(t *testing.T) {
	r, tokens := newAdminRouter(t)

	tests := []struct {
		name     string
		header   string
		path     string
		wantCode int
	}{
		{"missing token", "", "/admin/t1/ping", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "/admin/t1/ping", http.StatusUnauthorized},
		{"admin own tenant", "Bearer " + tokenFor(t, tokens, domain.UserRoleAdmin, "t1"), "/admin/t1/ping", http.StatusOK},
		{"admin other tenant", "Bearer " + tokenFor(t, tokens, domain.UserRoleAdmin, "t1"), "/admin/t2/ping", http.StatusForbidden},
		{"super admin any tenant", "Bearer " + tokenFor(t, tokens, domain.UserRoleSuperAdmin, ""), "/admin/t2/ping", http.StatusOK},
		{"end user", "Bearer " + tokenFor(t, tokens, domain.UserRoleEndUser, "t1"), "/admin/t1/ping", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	r, tokens := newAdminRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tokens, domain.UserRoleAdmin, "t1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, tokens, domain.UserRoleSuperAdmin, ""))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
