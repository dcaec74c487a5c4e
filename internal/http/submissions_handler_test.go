package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/internal/circuitbreaker"
	"github.com/guttosm/loan-request-service/internal/domain/model"
)

type fakeSubmissionQuery struct {
	records   []model.SubmissionRecord
	err       error
	lastLimit int
}

func (f *fakeSubmissionQuery) FindByCorrelationID(_ context.Context, correlationID string) ([]model.SubmissionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.SubmissionRecord
	for _, r := range f.records {
		if r.CorrelationID == correlationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSubmissionQuery) ListByClient(_ context.Context, clientID string, limit int) ([]model.SubmissionRecord, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	out := []model.SubmissionRecord{}
	for _, r := range f.records {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newSubmissionsRouter(query SubmissionQuery) *gin.Engine {
	router := gin.New()
	h := NewSubmissionsHandler(query)
	router.GET("/api/submissions", h.ListSubmissions)
	router.GET("/api/submissions/:correlationId", h.GetSubmission)
	return router
}

func sampleRecords() []model.SubmissionRecord {
	now := time.Now().UTC()
	return []model.SubmissionRecord{
		{CorrelationID: "batch-1", ClientID: "client-1", Attempt: 1, State: "failed", CreatedAt: now},
		{CorrelationID: "batch-1", ClientID: "client-1", Attempt: 2, State: "success", CreatedAt: now.Add(time.Second)},
		{CorrelationID: "batch-2", ClientID: "client-2", Attempt: 1, State: "success", CreatedAt: now},
	}
}

func TestSubmissionsHandler_GetSubmission(t *testing.T) {
	tests := []struct {
		name       string
		query      *fakeSubmissionQuery
		path       string
		wantStatus int
		wantLen    int
	}{
		{name: "all attempts", query: &fakeSubmissionQuery{records: sampleRecords()}, path: "/api/submissions/batch-1", wantStatus: http.StatusOK, wantLen: 2},
		{name: "unknown batch", query: &fakeSubmissionQuery{records: sampleRecords()}, path: "/api/submissions/nope", wantStatus: http.StatusNotFound},
		{name: "storage breaker open", query: &fakeSubmissionQuery{err: circuitbreaker.ErrCircuitOpen}, path: "/api/submissions/batch-1", wantStatus: http.StatusServiceUnavailable},
		{name: "storage error", query: &fakeSubmissionQuery{err: errors.New("boom")}, path: "/api/submissions/batch-1", wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, newSubmissionsRouter(tt.query), http.MethodGet, tt.path, nil, nil)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Len(t, decodeData[[]model.SubmissionRecord](t, w), tt.wantLen)
			}
		})
	}
}

func TestSubmissionsHandler_ListSubmissions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantLen    int
		wantLimit  int
	}{
		{name: "by client", path: "/api/submissions?client_id=client-1", wantStatus: http.StatusOK, wantLen: 2},
		{name: "with limit", path: "/api/submissions?client_id=client-2&limit=10", wantStatus: http.StatusOK, wantLen: 1, wantLimit: 10},
		{name: "bad limit falls back to default", path: "/api/submissions?client_id=client-2&limit=x", wantStatus: http.StatusOK, wantLen: 1},
		{name: "unknown client", path: "/api/submissions?client_id=ghost", wantStatus: http.StatusOK},
		{name: "client id required", path: "/api/submissions", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &fakeSubmissionQuery{records: sampleRecords()}

			w := serve(t, newSubmissionsRouter(query), http.MethodGet, tt.path, nil, nil)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Len(t, decodeData[[]model.SubmissionRecord](t, w), tt.wantLen)
				assert.Equal(t, tt.wantLimit, query.lastLimit)
			}
		})
	}
}
