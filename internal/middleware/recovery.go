package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/logger"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

// Recovery turns a handler panic into a translated 500 carrying the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordRecoveredPanic(route)

			requestID := GetRequestID(c)
			log := logger.Component("http")
			log.Error().
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Interface("panic", recovered).
				Bytes("stack", debug.Stack()).
				Msg("PANIC recovered")

			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(requestID))
		}()
		c.Next()
	}
}
