package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/i18n"
	"github.com/guttosm/loan-request-service/internal/service"
)

const (
	// SessionTokenParam is the route parameter carrying the signed session handle.
	SessionTokenParam = "token"
	// ClientIDHeader carries the browser's persistent client id.
	ClientIDHeader = "X-Client-ID"

	sessionIDKey = "session_id"
	clientIDKey  = "client_id"
)

// SessionTokenParser verifies session handles.
type SessionTokenParser interface {
	Parse(token string) (*service.SessionClaims, error)
}

// SessionAuth returns a middleware that verifies the :token route parameter
// and exposes the session and client ids to handlers.
func SessionAuth(tokens SessionTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := tokens.Parse(c.Param(SessionTokenParam))
		if err != nil {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInvalidSessionToken, i18n.GetLocale(c))
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, message).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}

		c.Set(sessionIDKey, claims.Subject)
		c.Set(clientIDKey, claims.ClientID)
		c.Request = c.Request.WithContext(service.ContextWithClientID(c.Request.Context(), claims.ClientID))

		c.Next()
	}
}

// GetSessionID returns the session id set by SessionAuth.
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// GetClientID returns the client id set by SessionAuth.
func GetClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}
