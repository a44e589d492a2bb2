package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// NewRelicTenantMiddleware tags the New Relic transaction started by nrgin
// with the request's tenant and reports handler errors. Must run after
// nrgin.Middleware and TenantMiddleware.
func NewRelicTenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		if slug := TenantSlug(c); slug != "" {
			txn.AddAttribute("tenant.slug", slug)
		}

		c.Next()

		// Record error if present.
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
