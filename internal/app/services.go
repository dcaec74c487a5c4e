// Package app provides service initialization.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/loan-request-service/config"
	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/client"
	"github.com/guttosm/loan-request-service/internal/service"
)

const sessionStoreDialTimeout = 5 * time.Second

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	LoanAPI    *client.BreakerClient
	Catalog    *service.Catalog
	Composer   *service.Composer
	Tokens     *service.SessionTokens
	Store      service.SessionStore
	RedisStore *service.RedisSessionStore
}

// InitializeServices builds the upstream client, the inventory cache and the
// composer. db may be nil, in which case counters live in memory.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	upstream := client.NewHTTPClient(client.Options{
		BaseURL:         cfg.Upstream.BaseURL,
		PublicInventory: cfg.Upstream.PublicInventory,
		Timeout:         cfg.Upstream.Timeout,
	})
	loanAPI := client.WithCircuitBreaker(upstream, circuitbreaker.Config{
		FailureThreshold: cfg.Upstream.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.Upstream.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.Upstream.CircuitBreakerTimeout,
		Name:             "loan-api",
		OnStateChange:    publishBreakerState,
	})

	var counter service.SubmissionCounter = service.NewMemoryCounter()
	var dispatcherOpts []service.DispatcherOption
	if db != nil {
		counter = db.Counters
		dispatcherOpts = append(dispatcherOpts, service.WithSubmissionLog(db.Submissions))
	}

	components := &ServiceComponents{
		LoanAPI: loanAPI,
		Catalog: service.NewCatalog(loanAPI),
		Tokens:  service.NewSessionTokens(cfg.Session.SigningSecret, cfg.Session.TokenMaxAge),
	}
	components.initializeSessionStore(cfg.Session)

	components.Composer = service.NewComposer(
		components.Store,
		components.Catalog,
		service.NewValidator(cfg.Session.ReconfirmEvery),
		service.NewDispatcher(loanAPI, dispatcherOpts...),
		counter,
	)

	return components
}

// initializeSessionStore uses Redis when configured and reachable, memory otherwise.
func (s *ServiceComponents) initializeSessionStore(cfg config.SessionConfig) {
	if cfg.Store == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), sessionStoreDialTimeout)
		defer cancel()

		store, err := service.NewRedisSessionStore(ctx, service.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err == nil {
			log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis session store")
			s.Store = store
			s.RedisStore = store
			return
		}
		log.Error().Err(err).Msg("Failed to connect to Redis - falling back to in-memory sessions")
	}

	s.Store = service.NewMemorySessionStore(service.DefaultSessionCapacity, cfg.TTL)
}

// LoadCatalog fetches the inventory in the background. The catalog reports ready
// once the attempt finishes, whatever its outcome.
func (s *ServiceComponents) LoadCatalog(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Failures are logged by the catalog and leave the list empty.
		_ = s.Catalog.Load(ctx)
	}()
	return done
}

// Close releases the session store.
func (s *ServiceComponents) Close() error {
	if s == nil || s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
