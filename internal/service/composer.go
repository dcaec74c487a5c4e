package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/logger"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

// ErrItemNotFound is returned when an edit names a cart line that does not exist.
var ErrItemNotFound = errors.New("item not found")

// ErrCatalogNotReady is returned by AddItem until the first catalog load settles.
var ErrCatalogNotReady = errors.New("catalog not ready")

// staleSendingAfter lets a session stuck in "sending" by a crashed process be used again.
const staleSendingAfter = 10 * time.Minute

// SubmitOptions carries the acknowledgements from the confirmation dialog.
type SubmitOptions struct {
	TermsAccepted bool
	Reconfirmed   bool
}

// SubmitOutcome is the session after a batch plus the batch itself.
type SubmitOutcome struct {
	Session  *model.Session
	Batch    model.BatchResult
	Warnings []string
}

// Composer owns composer sessions: it applies cart and form edits and drives
// the validator and dispatcher on submit.
type Composer struct {
	store      SessionStore
	catalog    ProductSource
	validator  *Validator
	dispatcher *Dispatcher
	counter    SubmissionCounter

	mu      sync.Mutex
	sending map[string]bool
}

// NewComposer wires a composer. A nil counter falls back to an in-memory one.
func NewComposer(store SessionStore, catalog ProductSource, validator *Validator, dispatcher *Dispatcher, counter SubmissionCounter) *Composer {
	if counter == nil {
		counter = NewMemoryCounter()
	}
	return &Composer{
		store:      store,
		catalog:    catalog,
		validator:  validator,
		dispatcher: dispatcher,
		counter:    counter,
		sending:    make(map[string]bool),
	}
}

// Create starts an empty session. An empty clientID gets a generated one.
func (c *Composer) Create(ctx context.Context, clientID string) (*model.Session, error) {
	if clientID == "" {
		clientID = uuid.NewString()
	}
	now := time.Now().UTC()
	s := &model.Session{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Cart:      model.NewCart(),
		State:     model.DispatchIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// Get returns the session.
func (c *Composer) Get(ctx context.Context, id string) (*model.Session, error) {
	return c.store.Get(ctx, id)
}

// AddItem matches text against the catalog and appends it to the cart.
// It is refused while the catalog is still loading.
func (c *Composer) AddItem(ctx context.Context, id, text string, quantity int) (*model.Session, *Advisory, error) {
	if !c.catalog.Ready() {
		return nil, nil, ErrCatalogNotReady
	}
	var advisory *Advisory
	s, err := c.edit(ctx, id, func(s *model.Session) error {
		s.Cart, advisory = AddItem(s.Cart, c.catalog.Products(), text, quantity)
		return nil
	})
	return s, advisory, err
}

// RemoveItem drops a cart line.
func (c *Composer) RemoveItem(ctx context.Context, id, localID string) (*model.Session, error) {
	return c.edit(ctx, id, func(s *model.Session) error {
		if _, ok := s.Cart.Find(localID); !ok {
			return ErrItemNotFound
		}
		s.Cart = RemoveItem(s.Cart, localID)
		return nil
	})
}

// UpdateQuantity stores the raw quantity of a cart line.
func (c *Composer) UpdateQuantity(ctx context.Context, id, localID, raw string) (*model.Session, error) {
	return c.edit(ctx, id, func(s *model.Session) error {
		if _, ok := s.Cart.Find(localID); !ok {
			return ErrItemNotFound
		}
		cart, err := UpdateQuantity(s.Cart, localID, raw)
		if err != nil {
			return err
		}
		s.Cart = cart
		return nil
	})
}

// UpdateForm replaces the solicitant fields.
func (c *Composer) UpdateForm(ctx context.Context, id string, form model.RequestForm) (*model.Session, error) {
	return c.edit(ctx, id, func(s *model.Session) error {
		s.Form = form
		return nil
	})
}

// ReconfirmationDue reports whether the client's next submit needs the regulations prompt.
func (c *Composer) ReconfirmationDue(ctx context.Context, clientID string) bool {
	return c.validator.ReconfirmationDue(c.priorSubmissions(ctx, clientID))
}

// Submit validates the session and dispatches its cart. Validation failures
// return before any network call. A batch with failures keeps the cart and the
// batch for RetryFailed; a fully accepted batch clears the session and bumps
// the client's counter by one.
func (c *Composer) Submit(ctx context.Context, id string, opts SubmitOptions) (*SubmitOutcome, error) {
	c.mu.Lock()
	s, err := c.loadIdle(ctx, id)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	validated, err := c.validator.Validate(SubmissionInput{
		Form:             s.Form,
		Cart:             s.Cart,
		TermsAccepted:    opts.TermsAccepted,
		Reconfirmed:      opts.Reconfirmed,
		PriorSubmissions: c.priorSubmissions(ctx, s.ClientID),
	})
	if err != nil {
		c.mu.Unlock()
		recordRejection(err)
		return nil, err
	}

	s.Form = validated.Form
	s.TermsAccepted = true
	if err := c.beginSend(ctx, s); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	dispatchCtx := ContextWithClientID(context.WithoutCancel(ctx), s.ClientID)
	batch, err := c.dispatcher.Submit(dispatchCtx, s.Form, s.Cart)
	if err != nil {
		c.abortSend(ctx, s)
		return nil, err
	}
	return c.finishSend(ctx, s, batch, validated.Warnings)
}

// RetryFailed re-sends only the failed lines of the last batch under the same correlation id.
func (c *Composer) RetryFailed(ctx context.Context, id string) (*SubmitOutcome, error) {
	c.mu.Lock()
	s, err := c.loadIdle(ctx, id)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if s.LastBatch == nil || s.LastBatch.OK() {
		c.mu.Unlock()
		return nil, ErrNothingToRetry
	}
	if err := c.beginSend(ctx, s); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	dispatchCtx := ContextWithClientID(context.WithoutCancel(ctx), s.ClientID)
	batch, err := c.dispatcher.Retry(dispatchCtx, *s.LastBatch)
	if err != nil {
		c.abortSend(ctx, s)
		return nil, err
	}
	return c.finishSend(ctx, s, batch, nil)
}

// edit applies fn to the session under the composer lock. Any edit returns the
// session to idle and discards the last batch, since its payloads no longer
// match the cart and form.
func (c *Composer) edit(ctx context.Context, id string, fn func(s *model.Session) error) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, err := c.loadIdle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.State = model.DispatchIdle
	s.LastBatch = nil
	s.UpdatedAt = time.Now().UTC()
	if err := c.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// loadIdle fetches a session that is not being sent. Callers hold c.mu.
func (c *Composer) loadIdle(ctx context.Context, id string) (*model.Session, error) {
	if c.sending[id] {
		return nil, ErrSubmissionInProgress
	}
	s, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.State == model.DispatchSending && time.Since(s.UpdatedAt) < staleSendingAfter {
		return nil, ErrSubmissionInProgress
	}
	return s, nil
}

// beginSend marks s as sending. Callers hold c.mu. The sending map only
// guards this process; a shared store also hands out a claim so two replicas
// cannot both pass loadIdle for the same session.
func (c *Composer) beginSend(ctx context.Context, s *model.Session) error {
	claimer, shared := c.store.(SendClaimer)
	if shared {
		claimed, err := claimer.ClaimSend(ctx, s.ID, staleSendingAfter)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrSubmissionInProgress
		}
	}

	s.State = model.DispatchSending
	s.UpdatedAt = time.Now().UTC()
	if err := c.store.Save(ctx, s); err != nil {
		if shared {
			c.releaseSend(ctx, s.ID)
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.sending[s.ID] = true
	return nil
}

// endSend drops both the local mark and any store claim. Callers hold c.mu.
func (c *Composer) endSend(ctx context.Context, id string) {
	delete(c.sending, id)
	if _, shared := c.store.(SendClaimer); shared {
		c.releaseSend(ctx, id)
	}
}

func (c *Composer) releaseSend(ctx context.Context, id string) {
	claimer := c.store.(SendClaimer)
	if err := claimer.ReleaseSend(context.WithoutCancel(ctx), id); err != nil {
		log := logger.FromContext(ctx, "composer")
		log.Warn().Err(err).Str("session_id", id).Msg("Failed to release send claim")
	}
}

func (c *Composer) abortSend(ctx context.Context, s *model.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.endSend(ctx, s.ID)

	s.State = model.DispatchIdle
	s.UpdatedAt = time.Now().UTC()
	if err := c.store.Save(context.WithoutCancel(ctx), s); err != nil {
		log := logger.FromContext(ctx, "composer")
		log.Error().Err(err).Str("session_id", s.ID).Msg("Failed to reset session state")
	}
}

func (c *Composer) finishSend(ctx context.Context, s *model.Session, batch model.BatchResult, warnings []string) (*SubmitOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.endSend(ctx, s.ID)

	log := logger.FromContext(ctx, "composer")
	ctx = context.WithoutCancel(ctx)

	s.LastBatch = &batch
	s.UpdatedAt = time.Now().UTC()
	if batch.OK() {
		s.Reset()
		s.State = model.DispatchSucceeded
		if _, err := c.counter.Increment(ctx, CounterKey(s.ClientID)); err != nil {
			log.Error().Err(err).Str("client_id", s.ClientID).Msg("Failed to increment submission counter")
		}
	} else {
		s.State = model.DispatchFailed
	}

	// The batch already reached the API, so the caller gets its outcome even if
	// the session could not be stored.
	if err := c.store.Save(ctx, s); err != nil {
		log.Error().Err(err).Str("session_id", s.ID).Msg("Failed to save session after submission")
	}

	log.Info().
		Str("session_id", s.ID).
		Str("solicitud_uuid", batch.CorrelationID).
		Str("state", s.State.String()).
		Msg("Submission finished")

	return &SubmitOutcome{Session: s, Batch: batch, Warnings: warnings}, nil
}

func (c *Composer) priorSubmissions(ctx context.Context, clientID string) int64 {
	n, err := c.counter.Get(ctx, CounterKey(clientID))
	if err != nil {
		log := logger.FromContext(ctx, "composer")
		log.Warn().Err(err).Str("client_id", clientID).Msg("Submission counter unavailable")
		return 0
	}
	return n
}

func recordRejection(err error) {
	var vErr *dto.ValidationError
	switch {
	case errors.As(err, &vErr):
		metrics.RecordSubmissionRejection(vErr.Field)
	case errors.Is(err, ErrReconfirmationRequired):
		metrics.RecordSubmissionRejection("reconfirmation")
	}
}
