package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origins := []string{"http://localhost:5173", "https://prestamos.example.edu"}

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed string
	}{
		{
			name:        "allows configured origin",
			method:      http.MethodGet,
			origin:      "https://prestamos.example.edu",
			wantStatus:  http.StatusOK,
			wantAllowed: "https://prestamos.example.edu",
		},
		{
			name:        "answers preflight",
			method:      http.MethodOptions,
			origin:      "http://localhost:5173",
			wantStatus:  http.StatusNoContent,
			wantAllowed: "http://localhost:5173",
		},
		{
			name:       "rejects unknown origin",
			method:     http.MethodGet,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(origins))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowed, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
