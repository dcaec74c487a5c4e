package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/logger"
)

// ErrorHandler logs the errors handlers attached with c.Error. Handlers that
// already answered keep their response; otherwise a translated 500 is written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := GetRequestID(c)
		written := c.Writer.Written()

		log := logger.Component("http")
		event := log.Error()
		if written && c.Writer.Status() < http.StatusInternalServerError {
			event = log.Warn()
		}
		logRequestError(event, c, requestID).Msg("Request error")

		if !written {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.JSON(http.StatusInternalServerError, dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
		}
	}
}

func logRequestError(event *zerolog.Event, c *gin.Context, requestID string) *zerolog.Event {
	event = event.
		Str("request_id", requestID).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Strs("errors", c.Errors.Errors())
	if c.Writer.Written() {
		event = event.Int("status", c.Writer.Status())
	}
	if clientID := GetClientID(c); clientID != "" {
		event = event.Str("client_id", clientID)
	}
	return event
}
