package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/loan-request-service/internal/middleware"
)

// SessionTokens issues and verifies session handles.
type SessionTokens interface {
	SessionTokenIssuer
	middleware.SessionTokenParser
}

// SessionRoutes handles composer session route registration.
type SessionRoutes struct {
	handler *SessionsHandler
	tokens  SessionTokens
}

// NewSessionRoutes creates a new SessionRoutes instance.
func NewSessionRoutes(composer SessionComposer, tokens SessionTokens) *SessionRoutes {
	return &SessionRoutes{
		handler: NewSessionsHandler(composer, tokens),
		tokens:  tokens,
	}
}

// RegisterPublicRoutes registers the session routes. Everything under
// /sessions/:token requires a valid handle and is rate limited per client.
func (r *SessionRoutes) RegisterPublicRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	rg.POST("/sessions", r.handler.CreateSession)

	session := rg.Group("/sessions/:" + middleware.SessionTokenParam)
	session.Use(middleware.SessionAuth(r.tokens))
	if cfg.RateLimit > 0 {
		clientLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		session.Use(clientLimiter.ClientRateLimit())
	}
	{
		session.GET("", r.handler.GetSession)
		session.PUT("/form", r.handler.UpdateForm)
		session.POST("/items", r.handler.AddItem)
		session.PATCH("/items/:itemId", r.handler.UpdateItem)
		session.DELETE("/items/:itemId", r.handler.RemoveItem)
		session.POST("/submit", r.handler.Submit)
		session.POST("/retry", r.handler.Retry)
	}
}
