package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultTenantCookie is the cookie that remembers the tenant across requests
// that arrive without a tenant subdomain.
const DefaultTenantCookie = "x-tenant-slug"

const tenantSlugKey = "tenantSlug"

// TenantMiddleware derives the tenant slug of a request from the Host
// subdomain (<slug>.<rootDomain>), falling back to the tenant cookie. A slug
// taken from the host is written back to the cookie.
func TenantMiddleware(rootDomain, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultTenantCookie
	}

	return func(c *gin.Context) {
		slug := TenantSlugFromHost(c.Request.Host, rootDomain)
		if slug != "" {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, slug, 0, "/", "", false, false)
		} else if cookie, err := c.Cookie(cookieName); err == nil {
			slug = strings.ToLower(strings.TrimSpace(cookie))
		}

		c.Set(tenantSlugKey, slug)
		c.Next()
	}
}

// TenantSlug returns the slug stored by TenantMiddleware, or "".
func TenantSlug(c *gin.Context) string {
	return c.GetString(tenantSlugKey)
}

// TenantSlugFromHost extracts the tenant subdomain from host. The root
// domain itself, "www" and "app" carry no tenant. rootDomain may include a
// port ("localhost:3000"); "<slug>.localhost" always works for development.
func TenantSlugFromHost(host, rootDomain string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	root := strings.ToLower(strings.TrimSpace(rootDomain))

	if host == "" || host == root || host == "www."+root {
		return ""
	}

	var sub string
	switch {
	case root != "" && strings.HasSuffix(host, "."+root):
		sub = strings.TrimSuffix(host, "."+root)
	default:
		h := host
		if i := strings.LastIndexByte(h, ':'); i >= 0 {
			h = h[:i]
		}
		if !strings.HasSuffix(h, ".localhost") {
			return ""
		}
		sub = strings.TrimSuffix(h, ".localhost")
	}

	if sub == "" || sub == "www" || sub == "app" || strings.Contains(sub, ".") {
		return ""
	}
	return sub
}
