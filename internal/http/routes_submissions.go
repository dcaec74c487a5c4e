package http

import (
	"github.com/gin-gonic/gin"
)

// SubmissionRoutes handles audit trail route registration.
type SubmissionRoutes struct {
	handler *SubmissionsHandler
}

// NewSubmissionRoutes creates a new SubmissionRoutes instance.
func NewSubmissionRoutes(submissions SubmissionQuery) *SubmissionRoutes {
	return &SubmissionRoutes{handler: NewSubmissionsHandler(submissions)}
}

// RegisterProtectedRoutes registers the audit routes.
func (r *SubmissionRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	rg.GET("/submissions", r.handler.ListSubmissions)
	rg.GET("/submissions/:correlationId", r.handler.GetSubmission)
}
