//go:build integration

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeApp_Integration(t *testing.T) {
	t.Parallel()

	t.Run("initialize app with MongoDB enabled", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(newFakeUpstream(t).URL)
		cfg.Database = integrationDatabaseConfig(t)

		application := InitializeApp(context.Background(), cfg)
		t.Cleanup(func() { _ = application.Close(context.Background()) })
		waitLoaded(t, application.CatalogLoaded)

		require.NotNil(t, application.Database)

		w := httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "mongodb")

		w = httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/submissions?client_id=nobody", nil))
		assert.Equal(t, http.StatusOK, w.Code, "audit routes are mounted with MongoDB")
	})

	t.Run("initialize app with MongoDB disabled", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig(newFakeUpstream(t).URL)

		application := InitializeApp(context.Background(), cfg)
		t.Cleanup(func() { _ = application.Close(context.Background()) })
		waitLoaded(t, application.CatalogLoaded)

		assert.Nil(t, application.Database)

		w := httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/submissions?client_id=nobody", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestInitializeApp_RedisSessions_Integration(t *testing.T) {
	t.Parallel()
	upstream := newFakeUpstream(t)
	cfg := testConfig(upstream.URL)
	cfg.Database = integrationDatabaseConfig(t)
	cfg.Session = redisSessionConfig(cfg.Session)

	application := InitializeApp(context.Background(), cfg)
	t.Cleanup(func() { _ = application.Close(context.Background()) })
	waitLoaded(t, application.CatalogLoaded)

	require.NotNil(t, application.Services.RedisStore, "redis store should be used when reachable")

	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "redis")

	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	req.Header.Set("X-Client-ID", "lab-pc-04")
	w = httptest.NewRecorder()
	application.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
