package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"limo/internal/handler"
	"limo/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TenantHandler      *handler.TenantHandler
	VehicleHandler     *handler.VehicleHandler
	QuoteHandler       *handler.QuoteHandler
	BookingHandler     *handler.BookingHandler
	PricingRuleHandler *handler.PricingRuleHandler
	PaymentHandler     *handler.PaymentHandler
	DriverHandler      *handler.DriverHandler
	Tokens             middleware.TokenValidator
	RootDomain         string
	TenantCookie       string
	RedisClient        *redis.Client
	NewRelicApp        *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.TenantMiddleware(deps.RootDomain, deps.TenantCookie))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicTenantMiddleware())
	}

	// Idempotency is mounted per route so guarded routes key replays by
	// the authenticated caller.
	var idempotent gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.RedisClient != nil {
		idempotent = middleware.IdempotencyMiddleware(deps.RedisClient)
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(deps.Tokens)

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Public storefront routes, scoped by the request's tenant.
		v1.GET("/tenant", deps.TenantHandler.Current)
		v1.GET("/fleet", deps.VehicleHandler.Preview)
		v1.POST("/quotes", deps.QuoteHandler.Quote)
		v1.POST("/bookings", idempotent, deps.BookingHandler.Create)
		v1.GET("/bookings/:id", deps.BookingHandler.Get)
		v1.GET("/payments/:id", deps.PaymentHandler.GetPayment)

		// Platform routes.
		v1.GET("/tenants", requireAuth, middleware.RequireSuperAdmin(), deps.TenantHandler.GetAll)

		// Tenant administration routes.
		admin := v1.Group("/admin/:tenantId", requireAuth, middleware.RequireTenantAdmin("tenantId"), idempotent)
		{
			admin.GET("", deps.TenantHandler.Get)
			admin.GET("/drivers", deps.DriverHandler.List)

			bookings := admin.Group("/bookings")
			{
				bookings.GET("", deps.BookingHandler.List)
				bookings.POST("/:id/confirm", deps.BookingHandler.Confirm)
				bookings.POST("/:id/start", deps.BookingHandler.Start)
				bookings.POST("/:id/complete", deps.BookingHandler.Complete)
				bookings.POST("/:id/cancel", deps.BookingHandler.Cancel)
			}

			vehicles := admin.Group("/vehicles")
			{
				vehicles.GET("", deps.VehicleHandler.List)
				vehicles.POST("", deps.VehicleHandler.Create)
				vehicles.PUT("/:id", deps.VehicleHandler.Update)
			}

			rules := admin.Group("/pricing-rules")
			{
				rules.GET("", deps.PricingRuleHandler.List)
				rules.POST("", deps.PricingRuleHandler.Create)
				rules.PUT("/:id", deps.PricingRuleHandler.Update)
				rules.DELETE("/:id", deps.PricingRuleHandler.Deactivate)
			}
		}
	}

	return router
}
