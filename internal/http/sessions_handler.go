package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/middleware"
	"github.com/guttosm/loan-request-service/internal/service"
)

// SessionComposer is the composer API the session routes drive.
type SessionComposer interface {
	Create(ctx context.Context, clientID string) (*model.Session, error)
	Get(ctx context.Context, id string) (*model.Session, error)
	AddItem(ctx context.Context, id, text string, quantity int) (*model.Session, *service.Advisory, error)
	RemoveItem(ctx context.Context, id, localID string) (*model.Session, error)
	UpdateQuantity(ctx context.Context, id, localID, raw string) (*model.Session, error)
	UpdateForm(ctx context.Context, id string, form model.RequestForm) (*model.Session, error)
	ReconfirmationDue(ctx context.Context, clientID string) bool
	Submit(ctx context.Context, id string, opts service.SubmitOptions) (*service.SubmitOutcome, error)
	RetryFailed(ctx context.Context, id string) (*service.SubmitOutcome, error)
}

// SessionTokenIssuer signs session handles.
type SessionTokenIssuer interface {
	Issue(sessionID, clientID string) (string, error)
}

// SessionsHandler serves the composer session routes.
type SessionsHandler struct {
	composer SessionComposer
	tokens   SessionTokenIssuer
}

// NewSessionsHandler creates a new SessionsHandler.
func NewSessionsHandler(composer SessionComposer, tokens SessionTokenIssuer) *SessionsHandler {
	return &SessionsHandler{composer: composer, tokens: tokens}
}

// CreateSession handles POST /api/sessions requests.
//
// @Summary      Start a loan request
// @Description  Creates an empty composer session and returns its signed handle. Send X-Client-ID to keep the submission counter across sessions; without it a new client id is issued and echoed in the X-Client-ID response header.
// @Tags         Sessions
// @Produce      json
// @Param        X-Client-ID header string false "Persistent client id"
// @Success      201 {object} dto.SuccessResponse{data=dto.SessionResponse} "New session"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ctx := c.Request.Context()

	s, err := h.composer.Create(ctx, c.GetHeader(middleware.ClientIDHeader))
	if err != nil {
		builder.DomainError(err)
		return
	}

	token, err := h.tokens.Issue(s.ID, s.ClientID)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
		return
	}

	c.Header(middleware.ClientIDHeader, s.ClientID)
	builder.SuccessCreated(h.sessionResponse(ctx, builder, token, s, nil))
}

// GetSession handles GET /api/sessions/:token requests.
//
// @Summary      Get a loan request
// @Tags         Sessions
// @Produce      json
// @Param        token path string true "Session handle"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session"
// @Failure      401 {object} dto.ErrorResponse "Invalid session handle"
// @Failure      404 {object} dto.ErrorResponse "Session expired"
// @Router       /api/sessions/{token} [get]
func (h *SessionsHandler) GetSession(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ctx := c.Request.Context()

	s, err := h.composer.Get(ctx, middleware.GetSessionID(c))
	if err != nil {
		builder.DomainError(err)
		return
	}
	builder.SuccessOK(h.sessionResponse(ctx, builder, c.Param(middleware.SessionTokenParam), s, nil))
}

// UpdateForm handles PUT /api/sessions/:token/form requests.
//
// @Summary      Update solicitant fields
// @Description  Replaces the form fields. The control number may only contain digits; completeness is checked on submit.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        token   path string                true "Session handle"
// @Param        request body dto.UpdateFormRequest true "Form fields"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Updated session"
// @Failure      400 {object} dto.ErrorResponse "Malformed body"
// @Failure      409 {object} dto.ErrorResponse "Submission in progress"
// @Failure      422 {object} dto.ErrorResponse "Invalid field"
// @Router       /api/sessions/{token}/form [put]
func (h *SessionsHandler) UpdateForm(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ctx := c.Request.Context()

	req, err := BuildRequestAndValidate[dto.UpdateFormRequest](c)
	if err != nil {
		h.requestError(builder, err)
		return
	}

	s, err := h.composer.UpdateForm(ctx, middleware.GetSessionID(c), req.ToModel())
	if err != nil {
		builder.DomainError(err)
		return
	}
	builder.SuccessOK(h.sessionResponse(ctx, builder, c.Param(middleware.SessionTokenParam), s, nil))
}

// AddItem handles POST /api/sessions/:token/items requests.
//
// @Summary      Add an item
// @Description  Matches the text against the inventory. Unmatched text is still added as a free-text item and an advisory is returned.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        token   path string             true "Session handle"
// @Param        request body dto.AddItemRequest true "Item"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Updated session"
// @Failure      400 {object} dto.ErrorResponse "Malformed body"
// @Failure      409 {object} dto.ErrorResponse "Submission in progress"
// @Failure      503 {object} dto.ErrorResponse "Inventory still loading"
// @Router       /api/sessions/{token}/items [post]
func (h *SessionsHandler) AddItem(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ctx := c.Request.Context()

	req, err := BuildRequest[dto.AddItemRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	s, advisory, err := h.composer.AddItem(ctx, middleware.GetSessionID(c), req.Text, req.Quantity)
	if err != nil {
		builder.DomainError(err)
		return
	}
	builder.SuccessOK(h.sessionResponse(ctx, builder, c.Param(middleware.SessionTokenParam), s, advisory))
}

// UpdateItem handles PATCH /api/sessions/:token/items/:itemId requests.
//
// @Summary      Change an item quantity
// @Description  Stores the raw digits typed by the user. Non-digit input is rejected and the cart is left unchanged.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        token   path string                    true "Session handle"
// @Param        itemId  path string                    true "Cart line id"
// @Param        request body dto.UpdateQuantityRequest true "Quantity"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Updated session"
// @Failure      400 {object} dto.ErrorResponse "Quantity is not numeric"
// @Failure      404 {object} dto.ErrorResponse "Unknown item"
// @Router       /api/sessions/{token}/items/{itemId} [patch]
func (h *SessionsHandler) UpdateItem(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ctx := c.Request.Context()

	req, err := BuildRequest[dto.UpdateQuantityRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	s, err := h.composer.UpdateQuantity(ctx, middleware.GetSessionID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		builder.DomainError(err)
		return
	}
	builder.SuccessOK(h.sessionResponse(ctx, builder, c.Param(middleware.SessionTokenParam), s, nil))
}

// RemoveItem handles DELETE /api/sessions/:token/items/:itemId requests.
//
// @Summary      Remove an item
// @Tags         Sessions
// @Produce      json
// @Param        token  path string true "Session handle"
// @Param        itemId path string true "Cart line id"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Updated session"
// @Failure      404 {object} dto.ErrorResponse "Unknown item"
// @Router       /api/sessions/{token}/items/{itemId} [delete]
func (h *SessionsHandler) RemoveItem(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ctx := c.Request.Context()

	s, err := h.composer.RemoveItem(ctx, middleware.GetSessionID(c), c.Param("itemId"))
	if err != nil {
		builder.DomainError(err)
		return
	}
	builder.SuccessOK(h.sessionResponse(ctx, builder, c.Param(middleware.SessionTokenParam), s, nil))
}

// Submit handles POST /api/sessions/:token/submit requests.
//
// @Summary      Submit the loan request
// @Description  Validates the session and sends one loan request per item, all concurrently, under one solicitud_uuid. The response reports every item. On full success the form and cart are cleared; otherwise they are kept for a retry. Supports idempotency via Idempotency-Key header.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string            false "Idempotency key for request deduplication"
// @Param        token           path   string            true  "Session handle"
// @Param        request         body   dto.SubmitRequest true  "Acknowledgements"
// @Success      200 {object} dto.SuccessResponse{data=dto.SubmitResponse} "Batch outcome"
// @Failure      409 {object} dto.ErrorResponse "Submission in progress"
// @Failure      422 {object} dto.ErrorResponse "Validation failed"
// @Failure      428 {object} dto.ErrorResponse "Regulations must be reconfirmed"
// @Router       /api/sessions/{token}/submit [post]
func (h *SessionsHandler) Submit(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.SubmitRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	outcome, err := h.composer.Submit(c.Request.Context(), middleware.GetSessionID(c), service.SubmitOptions{
		TermsAccepted: req.TermsAccepted,
		Reconfirmed:   req.Reconfirmed,
	})
	h.writeOutcome(c, builder, outcome, err)
}

// Retry handles POST /api/sessions/:token/retry requests.
//
// @Summary      Resend failed items
// @Description  Sends again only the items that failed in the last batch, with the same solicitud_uuid.
// @Tags         Sessions
// @Produce      json
// @Param        token path string true "Session handle"
// @Success      200 {object} dto.SuccessResponse{data=dto.SubmitResponse} "Batch outcome"
// @Failure      409 {object} dto.ErrorResponse "Nothing to retry or submission in progress"
// @Router       /api/sessions/{token}/retry [post]
func (h *SessionsHandler) Retry(c *gin.Context) {
	builder := NewResponseBuilder(c)
	outcome, err := h.composer.RetryFailed(c.Request.Context(), middleware.GetSessionID(c))
	h.writeOutcome(c, builder, outcome, err)
}

func (h *SessionsHandler) writeOutcome(c *gin.Context, builder *ResponseBuilder, outcome *service.SubmitOutcome, err error) {
	if err != nil {
		builder.DomainError(err)
		return
	}

	batch := dto.NewBatchResponse(&outcome.Batch)
	warnings := make([]string, 0, len(outcome.Warnings))
	for _, key := range outcome.Warnings {
		warnings = append(warnings, builder.Translate(key))
	}

	message := builder.Translate(i18n.SuccessKeySubmissionCompleted)
	if !outcome.Batch.OK() {
		message = batch.FirstError
		if message == "" {
			message = builder.Translate(i18n.ErrKeySubmissionFailed)
		}
	}

	session := h.sessionResponse(c.Request.Context(), builder, c.Param(middleware.SessionTokenParam), outcome.Session, nil)
	builder.SuccessWithMessage(http.StatusOK, message, dto.SubmitResponse{
		Batch:    batch,
		Session:  session,
		Warnings: warnings,
	})
}

func (h *SessionsHandler) requestError(builder *ResponseBuilder, err error) {
	if _, ok := err.(*dto.ValidationError); ok {
		builder.DomainError(err)
		return
	}
	builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}

func (h *SessionsHandler) sessionResponse(ctx context.Context, builder *ResponseBuilder, token string, s *model.Session, advisory *service.Advisory) dto.SessionResponse {
	resp := dto.SessionResponse{
		Token:             token,
		Form:              s.Form,
		Items:             s.Cart.Items(),
		State:             s.State,
		ReconfirmationDue: h.composer.ReconfirmationDue(ctx, s.ClientID),
		LastBatch:         dto.NewBatchResponse(s.LastBatch),
	}
	if resp.Items == nil {
		resp.Items = []model.RequestItem{}
	}
	if advisory != nil {
		resp.Advisory = builder.Translate(advisory.Key, advisory.Item)
	}
	return resp
}
