package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/loan-request-service/internal/client"
	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/logger"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

var (
	// ErrEmptyBatch is returned when Submit is called with an empty cart.
	ErrEmptyBatch = errors.New("cart is empty")
	// ErrNothingToRetry is returned when a batch has no failed items.
	ErrNothingToRetry = errors.New("no failed items to retry")
	// ErrSubmissionInProgress is returned while a batch for the same session is in flight.
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// SubmissionLog stores one audit record per batch attempt.
type SubmissionLog interface {
	Save(ctx context.Context, record *model.SubmissionRecord) error
}

type clientIDKey struct{}

// ContextWithClientID tags ctx with the client a batch is sent for.
func ContextWithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// ClientIDFromContext returns the client id stored by ContextWithClientID.
func ClientIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientIDKey{}).(string)
	return id
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSubmissionLog persists an audit record for every batch.
func WithSubmissionLog(log SubmissionLog) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// WithCorrelationIDs overrides how correlation ids are generated.
func WithCorrelationIDs(fn func() string) DispatcherOption {
	return func(d *Dispatcher) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// Dispatcher fans a cart out to the loan API, one POST per line, and joins
// the results into a BatchResult.
type Dispatcher struct {
	api   client.LoanAPI
	log   SubmissionLog
	newID func() string
}

// NewDispatcher creates a dispatcher over api.
func NewDispatcher(api client.LoanAPI, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		api:   api,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit posts every cart line concurrently under one fresh correlation id and
// waits for all of them. The returned result has one outcome per line, in cart order.
func (d *Dispatcher) Submit(ctx context.Context, form model.RequestForm, cart model.Cart) (model.BatchResult, error) {
	if cart.IsEmpty() {
		return model.BatchResult{}, ErrEmptyBatch
	}

	correlationID := d.newID()
	items := cart.Items()
	outcomes := make([]model.ItemOutcome, len(items))
	pending := make([]int, len(items))

	for i, item := range items {
		req, err := model.NewLoanRequest(form, item, correlationID)
		if err != nil {
			return model.BatchResult{}, fmt.Errorf("item %q: %w", item.DisplayName, err)
		}
		outcomes[i] = model.ItemOutcome{
			LocalID:     item.LocalID,
			DisplayName: item.DisplayName,
			Request:     req,
		}
		pending[i] = i
	}

	return d.send(ctx, correlationID, 1, outcomes, pending), nil
}

// Retry re-posts only the failed outcomes of previous, reusing its correlation
// id. Accepted outcomes are carried over untouched.
func (d *Dispatcher) Retry(ctx context.Context, previous model.BatchResult) (model.BatchResult, error) {
	outcomes := append([]model.ItemOutcome(nil), previous.Outcomes...)
	var pending []int
	for i, o := range outcomes {
		if !o.OK {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return previous, ErrNothingToRetry
	}

	attempt := previous.Attempt + 1
	if attempt < 2 {
		attempt = 2
	}
	return d.send(ctx, previous.CorrelationID, attempt, outcomes, pending), nil
}

// send posts outcomes[i].Request for every i in pending and fills in the result.
// Each goroutine writes only its own slot.
func (d *Dispatcher) send(ctx context.Context, correlationID string, attempt int, outcomes []model.ItemOutcome, pending []int) model.BatchResult {
	start := time.Now()

	var wg sync.WaitGroup
	for _, i := range pending {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := d.api.CreateLoan(ctx, outcomes[i].Request)
			outcomes[i] = settle(outcomes[i], err)
		}(i)
	}
	wg.Wait()

	result := model.BatchResult{
		CorrelationID: correlationID,
		Attempt:       attempt,
		Outcomes:      outcomes,
		StartedAt:     start,
		Duration:      time.Since(start),
	}

	accepted, rejected := 0, 0
	for _, i := range pending {
		if outcomes[i].OK {
			accepted++
		} else {
			rejected++
		}
	}
	metrics.RecordSubmissionBatch(result.Duration, accepted, rejected, attempt > 1)

	log := logger.FromContext(ctx, "dispatcher")
	event := log.Info()
	if rejected > 0 {
		event = log.Warn().Str("first_error", result.FirstError())
	}
	event.
		Str("solicitud_uuid", correlationID).
		Int("attempt", attempt).
		Int("sent", len(pending)).
		Int("accepted", accepted).
		Int("rejected", rejected).
		Dur("duration", result.Duration).
		Msg("Loan batch dispatched")

	d.record(ctx, result)
	return result
}

func settle(o model.ItemOutcome, err error) model.ItemOutcome {
	o.StatusCode = client.StatusCode(err)
	if err == nil {
		o.OK = true
		o.Error = ""
		return o
	}
	o.OK = false
	o.Error = err.Error()
	return o
}

func (d *Dispatcher) record(ctx context.Context, result model.BatchResult) {
	if d.log == nil {
		return
	}
	rec := model.NewSubmissionRecord(result).
		WithField("items", len(result.Outcomes)).
		WithField("failed", len(result.Failed()))
	rec.ClientID = ClientIDFromContext(ctx)
	rec.RequestID = logger.RequestIDFromContext(ctx)

	// The batch already happened; a lost audit record must not change its outcome.
	if err := d.log.Save(context.WithoutCancel(ctx), rec); err != nil {
		log := logger.FromContext(ctx, "dispatcher")
		log.Error().Err(err).
			Str("solicitud_uuid", result.CorrelationID).
			Msg("Failed to store submission record")
	}
}
