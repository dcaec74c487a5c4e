package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a middleware that lets the form page, served from another
// origin, call the API.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", APIKeyHeader, IdempotencyKeyHeader, RequestIDHeader, ClientIDHeader},
		ExposeHeaders:    []string{RequestIDHeader, ClientIDHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
