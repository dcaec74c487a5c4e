// Package middleware provides HTTP middleware components for the loan request service.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/loan-request-service/internal/logger"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds caller-supplied ids; they end up in every log line.
const maxRequestIDLength = 64

// ContextKey type for context keys to avoid collisions.
type ContextKey string

// RequestIDKey is the gin context key for the request id.
const RequestIDKey ContextKey = "request_id"

// RequestID tags each request with an id. A well-formed X-Request-ID from the
// caller is reused, anything else is replaced by a fresh UUID. The id is echoed
// in the response and stored in the request context for the service layer.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(string(RequestIDKey), requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(string(RequestIDKey)); ok {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}
