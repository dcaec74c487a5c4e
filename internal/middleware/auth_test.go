package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	operatorKeys := map[string]bool{"reload-key": true, "audit-key": true, "revoked-key": false}

	tests := []struct {
		name       string
		keys       map[string]bool
		header     string
		query      string
		locale     string
		wantStatus int
		wantBody   string
	}{
		{name: "accepts a configured key", keys: operatorKeys, header: "audit-key", wantStatus: http.StatusOK, wantBody: "reloaded"},
		{name: "missing key in English", keys: operatorKeys, locale: "en", wantStatus: http.StatusUnauthorized, wantBody: "API key is required"},
		{name: "unknown key", keys: operatorKeys, header: "guess", wantStatus: http.StatusUnauthorized, wantBody: "Clave de API inválida"},
		{name: "disabled key", keys: operatorKeys, header: "revoked-key", wantStatus: http.StatusUnauthorized, wantBody: "unauthorized"},
		{name: "query parameter is ignored", keys: operatorKeys, query: "api_key=reload-key", wantStatus: http.StatusUnauthorized},
		{name: "prefix of a key is rejected", keys: operatorKeys, header: "reload", wantStatus: http.StatusUnauthorized},
		{name: "no keys configured", keys: nil, wantStatus: http.StatusOK, wantBody: "reloaded"},
		{name: "only disabled keys configured", keys: map[string]bool{"old": false}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), APIKeyAuth(tt.keys))
			router.POST("/api/products/reload", func(c *gin.Context) {
				c.String(http.StatusOK, "reloaded")
			})

			req := httptest.NewRequest(http.MethodPost, "/api/products/reload", nil)
			req.URL.RawQuery = tt.query
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			if tt.locale != "" {
				req.Header.Set("Accept-Language", tt.locale)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
			}
		})
	}
}
