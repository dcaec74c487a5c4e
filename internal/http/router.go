// Package http exposes the loan request composer over a JSON API.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/loan-request-service/internal/metrics"
	"github.com/guttosm/loan-request-service/internal/middleware"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	APIKeys           map[string]bool
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string

	Catalog  CatalogService
	Composer SessionComposer
	Tokens   SessionTokens
	// Submissions enables the audit routes when set.
	Submissions SubmissionQuery
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:         100,
		RateWindow:        time.Minute,
		EnableIdempotency: true,
	}
}

// NewRouter creates and configures the Gin router.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	var public []PublicRouteGroup
	var protected []ProtectedRouteGroup
	if cfg.Catalog != nil {
		products := NewProductRoutes(cfg.Catalog)
		public = append(public, products)
		protected = append(protected, products)
	}
	if cfg.Composer != nil && cfg.Tokens != nil {
		public = append(public, NewSessionRoutes(cfg.Composer, cfg.Tokens))
	}
	if cfg.Submissions != nil {
		protected = append(protected, NewSubmissionRoutes(cfg.Submissions))
	}

	for _, group := range public {
		group.RegisterPublicRoutes(api, &cfg)
	}

	admin := api.Group("")
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		admin.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}
	for _, group := range protected {
		group.RegisterProtectedRoutes(admin, &cfg)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}
	router.Use(middleware.CORS(allowedOrigins))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
	)
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up middleware for the API group.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		api.Use(limiter.RateLimit())
	}

	if cfg.EnableIdempotency {
		api.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig()))
	}
}
