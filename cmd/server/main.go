package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"limo/internal/app"
	"limo/internal/auth"
	"limo/internal/config"
	"limo/internal/handler"
	internalRedis "limo/internal/redis"
	"limo/internal/repository/postgres"
	"limo/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.WithError(err).Warn("failed to initialize New Relic")
		} else {
			logger.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled (with DB instrumentation)")
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	if cfg.Database.MigrationsDir != "" {
		if err := app.ApplyMigrations(ctx, db, cfg.Database.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("failed to apply migrations")
		}
	}

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	if err := handler.RegisterValidators(); err != nil {
		logger.WithError(err).Fatal("failed to register validators")
	}

	tokens, err := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize auth")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, nrApp, tokens, logger, cfg)

	// Start server in goroutine.
	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logger.Info("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	db *sql.DB,
	redisClient *redis.Client,
	nrApp *newrelic.Application,
	tokens *auth.Service,
	logger *logrus.Logger,
	cfg *config.Config,
) *http.Server {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	ruleCache := internalRedis.NewRuleCache(redisClient, cfg.Pricing.RuleCacheTTL)

	// Initialize repositories.
	tenantRepo := postgres.NewTenantRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	ruleRepo := postgres.NewPricingRuleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	txManager := postgres.NewTxManager(db)

	// Initialize services.
	notificationService := service.NewNotificationService(logger)
	tenantService := service.NewTenantService(tenantRepo)
	fleetService := service.NewFleetService(vehicleRepo)
	driverService := service.NewDriverService(driverRepo)
	quoteService := service.NewQuoteService(vehicleRepo, ruleRepo, ruleCache, logger)
	ruleService := service.NewPricingRuleService(ruleRepo, vehicleRepo, ruleCache, cfg.Pricing.DefaultCurrency, logger)
	psp := service.NewMockPSP()
	paymentService := service.NewPaymentService(paymentRepo, psp)
	bookingService := service.NewBookingService(
		tenantRepo, bookingRepo, driverRepo, txManager, lockStore,
		quoteService, paymentService, notificationService, logger,
	)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TenantHandler:      handler.NewTenantHandler(tenantService),
		VehicleHandler:     handler.NewVehicleHandler(fleetService, tenantService),
		QuoteHandler:       handler.NewQuoteHandler(quoteService, tenantService),
		BookingHandler:     handler.NewBookingHandler(bookingService, tenantService),
		PricingRuleHandler: handler.NewPricingRuleHandler(ruleService),
		PaymentHandler:     handler.NewPaymentHandler(paymentService, tenantService),
		DriverHandler:      handler.NewDriverHandler(driverService),
		Tokens:             tokens,
		RootDomain:         cfg.Tenancy.RootDomain,
		TenantCookie:       cfg.Tenancy.TenantCookie,
		RedisClient:        redisClient,
		NewRelicApp:        nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
