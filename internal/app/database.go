// Package app provides database initialization and setup.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/loan-request-service/config"
	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/metrics"
	"github.com/guttosm/loan-request-service/internal/repository"
)

const databaseSetupTimeout = 5 * time.Second

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                        *repository.MongoDB
	Counters                  *repository.CounterRepositoryWithCircuitBreaker
	Submissions               *repository.SubmissionRepositoryWithCircuitBreaker
	CountersCircuitBreaker    *circuitbreaker.CircuitBreaker
	SubmissionsCircuitBreaker *circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the counter and audit repositories.
// Returns nil if the database is disabled or the connection fails; the service then
// keeps counters in memory and skips the audit trail.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), databaseSetupTimeout)
	defer cancel()

	ttlDays := int(cfg.SubmissionsTTL.Hours() / 24)
	if err := db.SetSubmissionsTTL(ctx, ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set submissions TTL index")
	}

	countersCB := newDatabaseBreaker(cfg, "mongodb-counters")
	submissionsCB := newDatabaseBreaker(cfg, "mongodb-submissions")

	return &DatabaseComponents{
		DB:                        db,
		Counters:                  repository.NewCounterRepositoryWithCircuitBreaker(repository.NewCounterRepository(db), countersCB),
		Submissions:               repository.NewSubmissionRepositoryWithCircuitBreaker(repository.NewSubmissionRepository(db), submissionsCB),
		CountersCircuitBreaker:    countersCB,
		SubmissionsCircuitBreaker: submissionsCB,
	}
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}

func newDatabaseBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange:    publishBreakerState,
	})
}

// publishBreakerState mirrors breaker transitions into the circuit breaker gauge.
func publishBreakerState(name string, _, to circuitbreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
}
