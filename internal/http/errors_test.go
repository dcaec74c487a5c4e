package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/client"
	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/service"
)

func TestResponseBuilder_DomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantLogged bool
	}{
		{name: "validation", err: dto.NewValidationError("requester_name", i18n.ValKeyRequesterNameRequired), wantStatus: http.StatusUnprocessableEntity, wantCode: dto.ErrCodeValidation},
		{name: "reconfirmation", err: service.ErrReconfirmationRequired, wantStatus: http.StatusPreconditionRequired, wantCode: dto.ErrCodeReconfirmation},
		{name: "session not found", err: service.ErrSessionNotFound, wantStatus: http.StatusNotFound, wantCode: dto.ErrCodeNotFound},
		{name: "item not found", err: fmt.Errorf("remove: %w", service.ErrItemNotFound), wantStatus: http.StatusNotFound, wantCode: dto.ErrCodeNotFound},
		{name: "non numeric quantity", err: service.ErrNonNumericQuantity, wantStatus: http.StatusBadRequest, wantCode: dto.ErrCodeInvalidRequest},
		{name: "in flight", err: service.ErrSubmissionInProgress, wantStatus: http.StatusConflict, wantCode: dto.ErrCodeConflict},
		{name: "nothing to retry", err: service.ErrNothingToRetry, wantStatus: http.StatusConflict, wantCode: dto.ErrCodeConflict},
		{name: "empty batch", err: service.ErrEmptyBatch, wantStatus: http.StatusUnprocessableEntity, wantCode: dto.ErrCodeValidation},
		{name: "bad token", err: service.ErrInvalidSessionToken, wantStatus: http.StatusUnauthorized, wantCode: dto.ErrCodeUnauthorized},
		{name: "catalog loading", err: service.ErrCatalogNotReady, wantStatus: http.StatusServiceUnavailable, wantCode: dto.ErrCodeUnavailable, wantLogged: true},
		{name: "circuit open", err: circuitbreaker.ErrCircuitOpen, wantStatus: http.StatusServiceUnavailable, wantCode: dto.ErrCodeUnavailable, wantLogged: true},
		{name: "api error", err: &client.APIError{StatusCode: 500, Message: "boom"}, wantStatus: http.StatusBadGateway, wantCode: dto.ErrCodeBadGateway, wantLogged: true},
		{name: "bad inventory", err: client.ErrInvalidInventory, wantStatus: http.StatusBadGateway, wantCode: dto.ErrCodeBadGateway, wantLogged: true},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: dto.ErrCodeInternal, wantLogged: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			NewResponseBuilder(c).DomainError(tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.NotEmpty(t, resp.Message)
			assert.Equal(t, tt.wantLogged, len(c.Errors) > 0)
		})
	}
}

func TestResponseBuilder_DomainError_ItemDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("Accept-Language", "en")

	NewResponseBuilder(c).DomainError(&dto.ValidationError{Field: "items", Key: i18n.ValKeyItemQuantityInvalid, Item: "Cautín"})

	resp := decodeError(t, w)
	assert.Equal(t, "items", resp.Details["field"])
	assert.Equal(t, "Cautín", resp.Details["item"])
	assert.Equal(t, `The quantity for "Cautín" must be greater than 0`, resp.Message)
}
