package client

import (
	"context"
	"errors"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/domain/model"
)

// BreakerClient wraps a LoanAPI with a circuit breaker. Rejections the API answers
// with a 4xx do not count as failures; the service is up, it just said no.
type BreakerClient struct {
	next LoanAPI
	cb   *circuitbreaker.CircuitBreaker
}

// WithCircuitBreaker decorates next. cfg.IsFailure is overridden.
func WithCircuitBreaker(next LoanAPI, cfg circuitbreaker.Config) *BreakerClient {
	cfg.IsFailure = IsBreakerFailure
	return &BreakerClient{next: next, cb: circuitbreaker.New(cfg)}
}

// IsBreakerFailure reports whether err counts against the breaker: transport
// errors and non-4xx answers do, API rejections do not. It says nothing about
// the breaker's own state; check circuitbreaker.ErrCircuitOpen for that.
func IsBreakerFailure(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.IsClientError()
	}
	return true
}

func (b *BreakerClient) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := b.cb.Execute(ctx, func() error {
		var err error
		products, err = b.next.ListProducts(ctx)
		return err
	})
	return products, err
}

func (b *BreakerClient) CreateLoan(ctx context.Context, req model.LoanRequest) error {
	return b.cb.Execute(ctx, func() error {
		return b.next.CreateLoan(ctx, req)
	})
}

// CircuitBreaker exposes the breaker for health checks.
func (b *BreakerClient) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return b.cb
}
