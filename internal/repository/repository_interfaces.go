// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/guttosm/loan-request-service/internal/domain/model"
)

// CounterRepositoryInterface defines the interface for counter repository operations.
type CounterRepositoryInterface interface {
	Get(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
}

// SubmissionRepositoryInterface defines the interface for submission record operations.
type SubmissionRepositoryInterface interface {
	Save(ctx context.Context, record *model.SubmissionRecord) error
	FindByCorrelationID(ctx context.Context, correlationID string) ([]model.SubmissionRecord, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]model.SubmissionRecord, error)
}
