package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	adminapp "github.com/storefront/backend/internal/application/admin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	partnerapp "github.com/storefront/backend/internal/application/partner"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/storefront/backend/docs"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Backend of the t-shirt storefront: catalog, reviews, customers, orders and the admin dashboard.

//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin session token. Format: "Bearer {token}"

//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						token

const orderMetricsInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Rebuild the logger so entries are also exported as OTEL logs
	log, err := logger.New(logCfg, tel.LogCore(logger.ParseLevel(cfg.Telemetry.LogsLevel)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Prices travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	gormLog := logger.NewGormLogger(log,
		logger.MapGormLogLevel(cfg.Log.Level),
		cfg.Telemetry.DBSlowQueryThresh,
		cfg.Telemetry.DBLogFullSQL,
	)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := tel.InstrumentDB(db.DB, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	idempotencyStore, err := cache.NewIdempotencyStore(ctx, cfg.Redis, cfg.Idempotency, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	orderService := tradeapp.NewOrderService(orderRepo, log)
	productService := catalogapp.NewProductService(productRepo, log)
	reviewService := catalogapp.NewReviewService(reviewRepo, log)
	dashboardService := adminapp.NewDashboardService(orderRepo, customerRepo, productRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	tokenBlacklist := auth.NewStoreTokenBlacklist(idempotencyStore)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)

	seeded, err := authService.SeedAdmin(ctx, identityapp.SeedAdminInput{
		Name:     cfg.Admin.SeedName,
		Email:    cfg.Admin.SeedEmail,
		Password: cfg.Admin.SeedPassword,
	})
	if err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err))
	}
	if seeded {
		log.Info("Seeded admin account", zap.String("email", cfg.Admin.SeedEmail))
	}

	// Business metrics
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:  tel.Meter.Meter("storefront"),
		Logger: log,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	businessMetrics.StartPeriodicCollection(metricsCtx, orderRepo, orderMetricsInterval)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	event.RegisterOrderHandlers(eventBus, log, businessMetrics, idempotencyStore)
	customerService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	orderService.SetRejectionRecorder(businessMetrics)
	productService.SetEventPublisher(eventBus)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// HTTP
	adminAuth := middleware.AdminAuth(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		CookieName:     cfg.Cookie.Name,
		Logger:         log,
	})

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
	}

	guards := router.Guards{AdminAuth: adminAuth}
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer loginLimiter.Stop()
		guards.LoginRateLimit = middleware.RateLimit(loginLimiter)
	}
	if cfg.Idempotency.Enabled {
		guards.Idempotency = middleware.Idempotency(middleware.IdempotencyConfig{
			Store:         idempotencyStore,
			TTL:           cfg.Idempotency.TTL,
			KeyPrefix:     cfg.Idempotency.KeyPrefix,
			RequireHeader: cfg.Idempotency.RequireHeader,
			Recorder:      businessMetrics,
			Logger:        log,
		})
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.Env == "production"

	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = tel.Profiler.IsEnabled()

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		Security:       security,
		CORS:           middleware.CORSFromLists(cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders),
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		RequestTimeout: cfg.HTTP.WriteTimeout,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		RateLimiter:    limiter,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tel.Tracer.IsEnabled(),
		},
		Metrics: middleware.HTTPMetricsConfig{
			Meter:   tel.Meter.Meter("storefront.http"),
			Enabled: tel.Meter.IsEnabled(),
			Logger:  log,
		},
		Profiling: profiling,
		Swagger:   cfg.Swagger,
		Health:    handler.NewHealthHandler(db),
		AdminAuth: adminAuth,
	})

	apiRouter := router.NewRouter(engine)
	for _, registrar := range router.Storefront(router.Handlers{
		Customer:  handler.NewCustomerHandler(customerService),
		Order:     handler.NewOrderHandler(orderService),
		Product:   handler.NewProductHandler(productService),
		Review:    handler.NewReviewHandler(reviewService),
		Auth:      handler.NewAuthHandler(authService, cfg.Cookie),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}, guards) {
		apiRouter.Register(registrar)
	}
	apiRouter.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopMetrics()
	businessMetrics.Stop()
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not drain", zap.Error(err))
	}
	if closer, ok := idempotencyStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Error closing idempotency store", zap.Error(err))
		}
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
