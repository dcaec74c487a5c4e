package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/internal/service"
)

func TestSessionAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tokens := service.NewSessionTokens("test-secret", time.Hour)
	valid, err := tokens.Issue("session-1", "client-1")
	require.NoError(t, err)
	forged, err := service.NewSessionTokens("other-secret", time.Hour).Issue("session-1", "client-1")
	require.NoError(t, err)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid token exposes ids",
			token:          valid,
			expectedStatus: http.StatusOK,
			expectedBody:   "session-1|client-1|client-1",
		},
		{
			name:           "token signed with another secret",
			token:          forged,
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Sesión inválida",
		},
		{
			name:           "garbage token",
			token:          "not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/sessions/:token", SessionAuth(tokens), func(c *gin.Context) {
				fromCtx := service.ClientIDFromContext(c.Request.Context())
				c.String(http.StatusOK, GetSessionID(c)+"|"+GetClientID(c)+"|"+fromCtx)
			})

			req := httptest.NewRequest(http.MethodGet, "/sessions/"+tt.token, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
