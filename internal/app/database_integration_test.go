//go:build integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/loan-request-service/config"
	"github.com/guttosm/loan-request-service/internal/domain/model"
)

func integrationDatabaseConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		URI:                            getSharedContainerURI(),
		DatabaseName:                   sanitizeDBNameForApp(t.Name()),
		SubmissionsTTL:                 30 * 24 * time.Hour,
		Enabled:                        true,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,
	}
}

func TestInitializeDatabase_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("initialize with enabled database", func(t *testing.T) {
		t.Parallel()
		components := InitializeDatabase(integrationDatabaseConfig(t))
		require.NotNil(t, components)
		t.Cleanup(func() { _ = components.Close(ctx) })

		assert.NotNil(t, components.Counters)
		assert.NotNil(t, components.Submissions)
		assert.Equal(t, "closed", components.CountersCircuitBreaker.GetStats().State)
		assert.Equal(t, "closed", components.SubmissionsCircuitBreaker.GetStats().State)
	})

	t.Run("unreachable database is skipped", func(t *testing.T) {
		t.Parallel()
		cfg := integrationDatabaseConfig(t)
		cfg.URI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200"

		assert.Nil(t, InitializeDatabase(cfg))
	})

	t.Run("counter and audit trail round trip", func(t *testing.T) {
		t.Parallel()
		components := InitializeDatabase(integrationDatabaseConfig(t))
		require.NotNil(t, components)
		t.Cleanup(func() { _ = components.Close(ctx) })

		n, err := components.Counters.Increment(ctx, "prestamos_submission_count:client-a")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		record := &model.SubmissionRecord{
			CorrelationID: "batch-1",
			ClientID:      "client-a",
			Attempt:       1,
			State:         model.DispatchSucceeded.String(),
		}
		require.NoError(t, components.Submissions.Save(ctx, record))

		records, err := components.Submissions.FindByCorrelationID(ctx, "batch-1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "client-a", records[0].ClientID)
	})
}
