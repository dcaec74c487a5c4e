package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/loan-request-service/internal/domain/model"
)

const (
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeValidation     = "validation_failed"
	ErrCodeInternal       = "internal_error"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeNotFound       = "not_found"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeConflict       = "conflict"
	ErrCodeTimeout        = "timeout"
	ErrCodeBadGateway     = "upstream_error"
	ErrCodeUnavailable    = "service_unavailable"
	// ErrCodeReconfirmation asks the client to show the regulations prompt again.
	ErrCodeReconfirmation = "reconfirmation_required"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	Data      interface{} `json:"data" swaggertype:"object"`
	Message   string      `json:"message,omitempty"`
	RequestID string      `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time   `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_failed"`
	Message string `json:"message,omitempty" example:"Agrega al menos un equipo a la solicitud"`
	// Details carries the offending field and, for cart errors, the item name.
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the appropriate error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusUnprocessableEntity:
		return ErrCodeValidation
	case http.StatusUnauthorized:
		return ErrCodeUnauthorized
	case http.StatusForbidden:
		return ErrCodeForbidden
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusConflict:
		return ErrCodeConflict
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusPreconditionRequired:
		return ErrCodeReconfirmation
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	case http.StatusBadGateway:
		return ErrCodeBadGateway
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// CatalogResponse lists the cached inventory.
// @Description Cached inventory and whether the initial load has finished
type CatalogResponse struct {
	Ready    bool            `json:"ready"`
	Products []model.Product `json:"products"`
} // @name CatalogResponse

// MatchResponse is the exact-normalized lookup result.
type MatchResponse struct {
	Matched bool           `json:"matched"`
	Product *model.Product `json:"product,omitempty"`
} // @name MatchResponse

// SearchResult is one fuzzy suggestion; lower scores are closer.
type SearchResult struct {
	Product model.Product `json:"product"`
	Score   float64       `json:"score" example:"0.125"`
} // @name SearchResult

// SessionResponse is the full composer state returned after every edit.
// @Description Composer session state
type SessionResponse struct {
	Token             string              `json:"token"`
	Form              model.RequestForm   `json:"form"`
	Items             []model.RequestItem `json:"items"`
	State             model.DispatchState `json:"state" swaggertype:"string" example:"idle"`
	ReconfirmationDue bool                `json:"reconfirmation_due"`
	LastBatch         *BatchResponse      `json:"last_batch,omitempty"`
	// Advisory is a non-blocking notice, e.g. an unmatched item sent as free text.
	Advisory string `json:"advisory,omitempty"`
} // @name SessionResponse

// BatchResponse reports the per-item outcome of a submission attempt.
// @Description Per-item outcome of a submission attempt
type BatchResponse struct {
	CorrelationID string              `json:"solicitud_uuid"`
	State         model.DispatchState `json:"state" swaggertype:"string" example:"failed"`
	Outcomes      []model.ItemOutcome `json:"outcomes"`
	FirstError    string              `json:"first_error,omitempty"`
	DurationMS    int64               `json:"duration_ms"`
} // @name BatchResponse

// NewBatchResponse converts a domain batch result.
func NewBatchResponse(b *model.BatchResult) *BatchResponse {
	if b == nil {
		return nil
	}
	state := model.DispatchFailed
	if b.OK() {
		state = model.DispatchSucceeded
	}
	return &BatchResponse{
		CorrelationID: b.CorrelationID,
		State:         state,
		Outcomes:      b.Outcomes,
		FirstError:    b.FirstError(),
		DurationMS:    b.Duration.Milliseconds(),
	}
}

// SubmitResponse is returned by submit and retry.
type SubmitResponse struct {
	Batch    *BatchResponse  `json:"batch"`
	Session  SessionResponse `json:"session"`
	Warnings []string        `json:"warnings,omitempty"`
} // @name SubmitResponse
