// Package repository provides circuit breaker wrappers for MongoDB operations.
package repository

import (
	"context"
	"errors"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/domain/model"
)

// CounterRepositoryWithCircuitBreaker wraps a counter repository with circuit breaker protection.
type CounterRepositoryWithCircuitBreaker struct {
	repo           CounterRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCounterRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewCounterRepositoryWithCircuitBreaker(repo CounterRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *CounterRepositoryWithCircuitBreaker {
	return &CounterRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Get returns the counter value with circuit breaker protection.
func (r *CounterRepositoryWithCircuitBreaker) Get(ctx context.Context, key string) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Get(ctx, key)
		return cbErr
	})
	return result, err
}

// Increment bumps the counter with circuit breaker protection.
func (r *CounterRepositoryWithCircuitBreaker) Increment(ctx context.Context, key string) (int64, error) {
	var result int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.Increment(ctx, key)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *CounterRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// SubmissionRepositoryWithCircuitBreaker wraps a submission repository with circuit breaker protection.
type SubmissionRepositoryWithCircuitBreaker struct {
	repo           SubmissionRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSubmissionRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewSubmissionRepositoryWithCircuitBreaker(repo SubmissionRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *SubmissionRepositoryWithCircuitBreaker {
	return &SubmissionRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Save stores a record with circuit breaker protection.
// If circuit is open, silently fails (the audit trail is non-critical).
func (r *SubmissionRepositoryWithCircuitBreaker) Save(ctx context.Context, record *model.SubmissionRecord) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Save(ctx, record)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// FindByCorrelationID looks up a batch with circuit breaker protection.
func (r *SubmissionRepositoryWithCircuitBreaker) FindByCorrelationID(ctx context.Context, correlationID string) ([]model.SubmissionRecord, error) {
	var result []model.SubmissionRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByCorrelationID(ctx, correlationID)
		return cbErr
	})
	return result, err
}

// ListByClient lists a client's records with circuit breaker protection.
func (r *SubmissionRepositoryWithCircuitBreaker) ListByClient(ctx context.Context, clientID string, limit int) ([]model.SubmissionRecord, error) {
	var result []model.SubmissionRecord
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.ListByClient(ctx, clientID, limit)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *SubmissionRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
