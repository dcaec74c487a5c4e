package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/loan-request-service/config"
)

// fakeUpstream serves a three-item inventory and accepts every loan request.
type fakeUpstream struct {
	*httptest.Server
	loans atomic.Int32
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/inventario", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 7, "nombre_equipo": "Arduino Uno"},
			{"id": 9, "nombre_equipo": "Multímetro Digital"},
			{"id": 12, "nombre_equipo": "Cautín"},
		})
	})
	mux.HandleFunc("/api/prestamos", func(w http.ResponseWriter, r *http.Request) {
		f.loans.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func testConfig(baseURL string) config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:       "0",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Upstream: config.UpstreamConfig{
			BaseURL:                        baseURL,
			PublicInventory:                true,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 1,
			CircuitBreakerTimeout:          time.Second,
		},
		Session: config.SessionConfig{
			Store:          "memory",
			TTL:            time.Hour,
			SigningSecret:  "test-secret",
			TokenMaxAge:    time.Hour,
			ReconfirmEvery: 5,
		},
		Log: config.LogConfig{Level: "error"},
	}
}

func waitLoaded(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("inventory load did not finish")
	}
}
