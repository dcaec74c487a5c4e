package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/internal/domain/dto"
	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testProducts = []model.Product{
	{ID: 7, Name: "Arduino Uno"},
	{ID: 9, Name: "Multímetro Digital"},
	{ID: 12, Name: "Cautín"},
}

// fakeLoanAPI serves testProducts and records every loan request. Free-text
// items whose name is in reject fail with the mapped error.
type fakeLoanAPI struct {
	mu       sync.Mutex
	products []model.Product
	listErr  error
	reject   map[string]error
	requests []model.LoanRequest
}

func newFakeLoanAPI() *fakeLoanAPI {
	return &fakeLoanAPI{products: testProducts, reject: make(map[string]error)}
}

func (f *fakeLoanAPI) ListProducts(context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Product(nil), f.products...), nil
}

func (f *fakeLoanAPI) CreateLoan(_ context.Context, req model.LoanRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if req.ExtraName != nil {
		if err, ok := f.reject[*req.ExtraName]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeLoanAPI) setReject(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.reject, name)
		return
	}
	f.reject[name] = err
}

func (f *fakeLoanAPI) sent() []model.LoanRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.LoanRequest(nil), f.requests...)
}

// testEnv is a fully wired router backed by in-memory stores.
type testEnv struct {
	router  *gin.Engine
	api     *fakeLoanAPI
	catalog *service.Catalog
	counter *service.MemoryCounter
	tokens  *service.SessionTokens
}

func newTestEnv(t *testing.T, mutate func(cfg *RouterConfig)) *testEnv {
	t.Helper()

	api := newFakeLoanAPI()
	catalog := service.NewCatalog(api)
	require.NoError(t, catalog.Load(context.Background()))

	store := service.NewMemorySessionStore(100, time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	counter := service.NewMemoryCounter()
	tokens := service.NewSessionTokens("test-secret", time.Hour)
	composer := service.NewComposer(store, catalog, service.NewValidator(service.DefaultReconfirmEvery),
		service.NewDispatcher(api), counter)

	cfg := DefaultRouterConfig()
	cfg.Catalog = catalog
	cfg.Composer = composer
	cfg.Tokens = tokens
	if mutate != nil {
		mutate(&cfg)
	}

	return &testEnv{
		router:  NewRouter(NewHealthHandler(), cfg),
		api:     api,
		catalog: catalog,
		counter: counter,
		tokens:  tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, e.router, method, path, body, headers)
}

// newSession creates a session for clientID and returns its handle.
func (e *testEnv) newSession(t *testing.T, clientID string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/sessions", nil, map[string]string{"X-Client-ID": clientID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData[dto.SessionResponse](t, w).Token
}

func serve(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope[T any] struct {
	Data      T      `json:"data"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	return decodeEnvelope[T](t, w).Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}
