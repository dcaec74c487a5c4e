package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/domain/model"
)

var errStorageDown = errors.New("storage down")

type fakeCounterRepo struct {
	value int64
	err   error
	calls int
}

func (f *fakeCounterRepo) Get(_ context.Context, _ string) (int64, error) {
	f.calls++
	return f.value, f.err
}

func (f *fakeCounterRepo) Increment(_ context.Context, _ string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.value++
	return f.value, nil
}

type fakeSubmissionRepo struct {
	saved []*model.SubmissionRecord
	err   error
}

func (f *fakeSubmissionRepo) Save(_ context.Context, record *model.SubmissionRecord) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeSubmissionRepo) FindByCorrelationID(_ context.Context, _ string) ([]model.SubmissionRecord, error) {
	return nil, f.err
}

func (f *fakeSubmissionRepo) ListByClient(_ context.Context, _ string, _ int) ([]model.SubmissionRecord, error) {
	return nil, f.err
}

func tripOnFirstFailure() *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:             "test",
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
	})
}

func TestCounterRepositoryWithCircuitBreaker(t *testing.T) {
	t.Run("passes through when closed", func(t *testing.T) {
		repo := &fakeCounterRepo{}
		wrapped := NewCounterRepositoryWithCircuitBreaker(repo, tripOnFirstFailure())

		n, err := wrapped.Increment(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = wrapped.Get(context.Background(), "k")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("open circuit short-circuits", func(t *testing.T) {
		repo := &fakeCounterRepo{err: errStorageDown}
		wrapped := NewCounterRepositoryWithCircuitBreaker(repo, tripOnFirstFailure())

		_, err := wrapped.Get(context.Background(), "k")
		assert.ErrorIs(t, err, errStorageDown)

		_, err = wrapped.Increment(context.Background(), "k")
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
		assert.Equal(t, 1, repo.calls)
	})
}

func TestSubmissionRepositoryWithCircuitBreaker(t *testing.T) {
	t.Run("save error surfaces while closed", func(t *testing.T) {
		repo := &fakeSubmissionRepo{err: errStorageDown}
		wrapped := NewSubmissionRepositoryWithCircuitBreaker(repo, tripOnFirstFailure())

		err := wrapped.Save(context.Background(), &model.SubmissionRecord{CorrelationID: "x"})
		assert.ErrorIs(t, err, errStorageDown)
	})

	t.Run("save is dropped silently when open", func(t *testing.T) {
		repo := &fakeSubmissionRepo{err: errStorageDown}
		wrapped := NewSubmissionRepositoryWithCircuitBreaker(repo, tripOnFirstFailure())
		_ = wrapped.Save(context.Background(), &model.SubmissionRecord{CorrelationID: "x"})

		err := wrapped.Save(context.Background(), &model.SubmissionRecord{CorrelationID: "y"})
		assert.NoError(t, err)
	})

	t.Run("reads report open circuit", func(t *testing.T) {
		repo := &fakeSubmissionRepo{err: errStorageDown}
		wrapped := NewSubmissionRepositoryWithCircuitBreaker(repo, tripOnFirstFailure())
		_, _ = wrapped.FindByCorrelationID(context.Background(), "x")

		_, err := wrapped.ListByClient(context.Background(), "c", 5)
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	})

	t.Run("save passes record through", func(t *testing.T) {
		repo := &fakeSubmissionRepo{}
		wrapped := NewSubmissionRepositoryWithCircuitBreaker(repo, tripOnFirstFailure())

		require.NoError(t, wrapped.Save(context.Background(), &model.SubmissionRecord{CorrelationID: "x"}))
		assert.Len(t, repo.saved, 1)
	})
}
