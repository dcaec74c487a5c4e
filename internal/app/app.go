// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/loan-request-service/config"
	"github.com/guttosm/loan-request-service/internal/http"
)

// Application is the wired service.
type Application struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Database *DatabaseComponents
	// CatalogLoaded is closed when the initial inventory load attempt finishes.
	CatalogLoaded <-chan struct{}
}

// InitializeApp creates and wires all application dependencies and starts the
// initial inventory load.
func InitializeApp(ctx context.Context, cfg config.Config) *Application {
	// Initialize logger first (needed by other components)
	InitializeLogger(cfg.Log)

	// Database is optional; without it counters are in memory and there is no audit trail
	dbComponents := InitializeDatabase(cfg.Database)

	serviceComponents := InitializeServices(cfg, dbComponents)
	loaded := serviceComponents.LoadCatalog(ctx)

	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return &Application{
		Router:        http.NewRouter(routerComponents.HealthHandler, routerComponents.Config),
		Services:      serviceComponents,
		Database:      dbComponents,
		CatalogLoaded: loaded,
	}
}

// Close releases the session store and the database connection.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if err := a.Services.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.Database.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Msg("Failed to release resources")
		return err
	}
	return nil
}
