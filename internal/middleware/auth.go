package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"limo/internal/auth"
	"limo/internal/domain"
)

const claimsKey = "authClaims"

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Ensure auth.Service implements TokenValidator.
var _ TokenValidator = (*auth.Service)(nil)

// RequireAuth rejects requests without a valid bearer token and stores the
// token's claims on the context.
func RequireAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err)
			return
		}

		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireTenantAdmin allows SUPER_ADMIN on any tenant and ADMIN only on the
// tenant named by the tenantParam route parameter. Must run after RequireAuth.
func RequireTenantAdmin(tenantParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, auth.ErrMissingToken)
			return
		}

		if !claims.CanManageTenant(c.Param(tenantParam)) {
			abortWithError(c, http.StatusForbidden, errors.New("not allowed to manage this tenant"))
			return
		}

		c.Next()
	}
}

// RequireSuperAdmin allows only SUPER_ADMIN. Must run after RequireAuth.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, auth.ErrMissingToken)
			return
		}

		if claims.Role != domain.UserRoleSuperAdmin {
			abortWithError(c, http.StatusForbidden, errors.New("super admin only"))
			return
		}

		c.Next()
	}
}

// Claims returns the claims stored by RequireAuth, or nil.
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func abortWithError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}
