package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/internal/metrics"
)

func testCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m io_prometheus_client.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   []string
		wantPanics float64
	}{
		{
			name:       "panic becomes a 500 with the request id",
			handler:    func(c *gin.Context) { panic("nil cart") },
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"internal_error", "Ocurrió un error inesperado"},
			wantPanics: 1,
		},
		{
			name:       "panic with an error value",
			handler:    func(c *gin.Context) { panic(http.ErrBodyNotAllowed) },
			wantStatus: http.StatusInternalServerError,
			wantBody:   []string{"internal_error"},
			wantPanics: 1,
		},
		{
			name:       "no panic",
			handler:    func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantBody:   []string{"ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), Recovery())
			router.GET("/api/sessions/:token", tt.handler)

			counter := metrics.RecoveredPanicsTotal.WithLabelValues("/api/sessions/:token")
			before := testCounterValue(t, counter)

			req := httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			for _, substr := range tt.wantBody {
				assert.Contains(t, w.Body.String(), substr)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
			}
			assert.Equal(t, before+tt.wantPanics, testCounterValue(t, counter))
		})
	}
}

func TestRecovery_RepanicsOnAbortHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery())
	router.GET("/stream", func(c *gin.Context) { panic(http.ErrAbortHandler) })

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stream", nil))
	})
}
