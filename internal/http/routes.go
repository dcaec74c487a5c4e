package http

import (
	"github.com/gin-gonic/gin"
)

// PublicRouteGroup is a feature area reachable by the form without an operator key:
// the inventory lookups and the composer sessions.
type PublicRouteGroup interface {
	RegisterPublicRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// ProtectedRouteGroup is a feature area with operator-only routes, such as the
// inventory reload and the submission audit trail. They sit behind APIKeyAuth
// when authentication is enabled.
type ProtectedRouteGroup interface {
	RegisterProtectedRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}
