package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/logger"
)

// APIKeyHeader carries the operator key for the administrative routes
// (inventory reload and the submission audit trail).
const APIKeyHeader = "X-API-Key"

// APIKeyAuth guards administrative routes. Keys are read from the header only.
// An empty key set disables the check.
func APIKeyAuth(validKeys map[string]bool) gin.HandlerFunc {
	keys := make([][]byte, 0, len(validKeys))
	for k, ok := range validKeys {
		if ok && k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(keys) == 0 {
			c.Next()
			return
		}

		presented := c.GetHeader(APIKeyHeader)
		msgKey := ""
		switch {
		case presented == "":
			msgKey = i18n.ErrKeyAPIKeyRequired
		case !matchesAny(keys, []byte(presented)):
			msgKey = i18n.ErrKeyInvalidAPIKey
		}
		if msgKey == "" {
			c.Next()
			return
		}

		requestID := GetRequestID(c)
		log := logger.Component("auth")
		log.Warn().
			Str("request_id", requestID).
			Str("path", c.Request.URL.Path).
			Str("reason", msgKey).
			Msg("Rejected administrative request")

		errorResp := dto.NewError(dto.ErrCodeUnauthorized, i18n.GetTranslator().Translate(msgKey, i18n.GetLocale(c))).
			WithRequestID(requestID)
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
	}
}

func matchesAny(keys [][]byte, presented []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, presented)
	}
	return found == 1
}
