// Package app provides router configuration.
package app

import (
	"context"

	"github.com/guttosm/loan-request-service/config"
	"github.com/guttosm/loan-request-service/internal/http"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the health handler and router configuration.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterChecker("catalog", http.CatalogReadiness(services.Catalog))
	healthHandler.RegisterCircuitBreaker("loan_api", services.LoanAPI.CircuitBreaker())

	if services.RedisStore != nil {
		healthHandler.RegisterChecker("redis", http.HealthCheckFunc(services.RedisStore.Ping))
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           cfg.Auth.APIKeys,
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		Catalog:           services.Catalog,
		Composer:          services.Composer,
		Tokens:            services.Tokens,
	}

	if db != nil {
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(func(ctx context.Context) error {
			return db.DB.HealthCheck(ctx)
		}))
		healthHandler.RegisterCircuitBreaker("mongodb_counters", db.CountersCircuitBreaker)
		healthHandler.RegisterCircuitBreaker("mongodb_submissions", db.SubmissionsCircuitBreaker)
		routerCfg.Submissions = db.Submissions
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
