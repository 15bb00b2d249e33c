package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig assembles the global middleware stack
type EngineConfig struct {
	Logger         *zap.Logger
	Security       middleware.SecurityConfig
	CORS           middleware.CORSConfig
	MaxBodySize    int64
	RequestTimeout time.Duration
	TrustedProxies []string
	// RateLimiter applies to every request; nil disables it
	RateLimiter *middleware.RateLimiter
	Tracing     middleware.TracingConfig
	Metrics     middleware.HTTPMetricsConfig
	Profiling   middleware.ProfilingConfig
	Swagger     config.SwaggerConfig
	Health      *handler.HealthHandler
	// AdminAuth guards the docs when Swagger.RequireAdmin is set
	AdminAuth gin.HandlerFunc
}

// NewEngine builds the gin engine with the global middleware stack, the
// health probe and the API docs. API routes are added with NewRouter.
//
// Middleware order:
//  1. RequestID
//  2. Recovery
//  3. request logging
//  4. tracing, then span attributes
//  5. HTTP metrics and profiling labels
//  6. security headers and CORS
//  7. body limit and request timeout
//  8. rate limiting
func NewEngine(cfg EngineConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			cfg.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Tracing(cfg.Tracing))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.SpanEnricher())
	}
	engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	engine.Use(middleware.Profiling(cfg.Profiling))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RequestTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", c.GetString(logger.RequestIDContextKey)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			"METHOD_NOT_ALLOWED", "Method not allowed", c.GetString(logger.RequestIDContextKey)))
	})

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Check)
	}

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, cfg.AdminAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	return engine
}
