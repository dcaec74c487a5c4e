package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/i18n"
)

// SubmissionQuery reads the batch audit trail.
type SubmissionQuery interface {
	FindByCorrelationID(ctx context.Context, correlationID string) ([]model.SubmissionRecord, error)
	ListByClient(ctx context.Context, clientID string, limit int) ([]model.SubmissionRecord, error)
}

// SubmissionsHandler serves the administrative audit routes.
type SubmissionsHandler struct {
	submissions SubmissionQuery
}

// NewSubmissionsHandler creates a new SubmissionsHandler.
func NewSubmissionsHandler(submissions SubmissionQuery) *SubmissionsHandler {
	return &SubmissionsHandler{submissions: submissions}
}

// GetSubmission handles GET /api/submissions/:correlationId requests.
//
// @Summary      Get a batch
// @Description  Returns every recorded attempt of a batch, oldest first.
// @Tags         Submissions
// @Produce      json
// @Param        X-API-Key     header string false "API key (required if auth enabled)"
// @Param        correlationId path   string true  "solicitud_uuid"
// @Success      200 {object} dto.SuccessResponse{data=[]model.SubmissionRecord} "Attempts"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Failure      404 {object} dto.ErrorResponse "Unknown batch"
// @Failure      503 {object} dto.ErrorResponse "Storage unavailable"
// @Security     ApiKeyAuth
// @Router       /api/submissions/{correlationId} [get]
func (h *SubmissionsHandler) GetSubmission(c *gin.Context) {
	builder := NewResponseBuilder(c)

	records, err := h.submissions.FindByCorrelationID(c.Request.Context(), c.Param("correlationId"))
	if err != nil {
		builder.DomainError(err)
		return
	}
	if len(records) == 0 {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}
	builder.SuccessOK(records)
}

// ListSubmissions handles GET /api/submissions requests.
//
// @Summary      List a client's batches
// @Description  Returns the most recent batch attempts of a client, newest first.
// @Tags         Submissions
// @Produce      json
// @Param        X-API-Key header string false "API key (required if auth enabled)"
// @Param        client_id query  string true  "Client id"
// @Param        limit     query  int    false "Limit number of results"
// @Success      200 {object} dto.SuccessResponse{data=[]model.SubmissionRecord} "Attempts"
// @Failure      400 {object} dto.ErrorResponse "Missing client_id"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized"
// @Security     ApiKeyAuth
// @Router       /api/submissions [get]
func (h *SubmissionsHandler) ListSubmissions(c *gin.Context) {
	builder := NewResponseBuilder(c)

	clientID := c.Query("client_id")
	if clientID == "" {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, nil)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}

	records, err := h.submissions.ListByClient(c.Request.Context(), clientID, limit)
	if err != nil {
		builder.DomainError(err)
		return
	}
	builder.SuccessOK(records)
}
