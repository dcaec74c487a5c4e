package http

import (
	"errors"
	"net/http"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/client"
	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/service"
)

// DomainError maps a service error to its HTTP status and translated message.
func (b *ResponseBuilder) DomainError(err error) {
	var vErr *dto.ValidationError
	if errors.As(err, &vErr) {
		details := map[string]string{"field": vErr.Field}
		if vErr.Item != "" {
			details["item"] = vErr.Item
		}
		b.ErrorWithDetails(http.StatusUnprocessableEntity, b.Translate(vErr.Key, vErr.Item), details, err)
		return
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, service.ErrReconfirmationRequired):
		b.Error(http.StatusPreconditionRequired, i18n.ValKeyReconfirmationRequired, err)
	case errors.Is(err, service.ErrSessionNotFound):
		b.Error(http.StatusNotFound, i18n.ErrKeySessionNotFound, err)
	case errors.Is(err, service.ErrItemNotFound):
		b.Error(http.StatusNotFound, i18n.ErrKeyItemNotFound, err)
	case errors.Is(err, service.ErrNonNumericQuantity):
		b.Error(http.StatusBadRequest, i18n.ErrKeyQuantityNotNumeric, err)
	case errors.Is(err, service.ErrSubmissionInProgress):
		b.Error(http.StatusConflict, i18n.ErrKeySubmissionInFlight, err)
	case errors.Is(err, service.ErrNothingToRetry):
		b.Error(http.StatusConflict, i18n.ErrKeyNothingToRetry, err)
	case errors.Is(err, service.ErrEmptyBatch):
		b.ErrorWithDetails(http.StatusUnprocessableEntity, b.Translate(i18n.ValKeyCartEmpty),
			map[string]string{"field": "items"}, err)
	case errors.Is(err, service.ErrInvalidSessionToken):
		b.Error(http.StatusUnauthorized, i18n.ErrKeyInvalidSessionToken, err)
	case errors.Is(err, service.ErrCatalogNotReady):
		b.Error(http.StatusServiceUnavailable, i18n.ErrKeyCatalogNotReady, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		b.Error(http.StatusServiceUnavailable, i18n.ErrKeyUpstreamDown, err)
	case errors.As(err, &apiErr), errors.Is(err, client.ErrInvalidInventory):
		b.Error(http.StatusBadGateway, i18n.ErrKeyUpstreamDown, err)
	default:
		b.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}
