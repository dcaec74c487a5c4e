//go:build integration

package testutil

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// sharedEnv holds the containers a package's integration tests share. MongoDB
// backs the counters and the submission audit trail; Redis backs the session
// store and is only started by packages that exercise it.
var sharedEnv struct {
	mu    sync.RWMutex
	mongo *MongoDBContainer
	redis *RedisContainer
}

// SetupTestMainWithMongoDB starts a shared MongoDB container, runs the tests
// and tears the container down.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	return setupTestMain(ctx, m, false)
}

// SetupTestMainWithMongoDBAndRedis is SetupTestMainWithMongoDB plus a shared
// Redis container for the session store.
func SetupTestMainWithMongoDBAndRedis(ctx context.Context, m *testing.M) int {
	return setupTestMain(ctx, m, true)
}

func setupTestMain(ctx context.Context, m *testing.M, withRedis bool) int {
	if err := startShared(ctx, withRedis); err != nil {
		panic(err)
	}

	code := m.Run()

	if err := cleanupShared(ctx); err != nil {
		// Docker reaps the containers anyway
		_, _ = os.Stderr.WriteString("Warning: failed to cleanup shared containers: " + err.Error() + "\n")
	}
	return code
}

func startShared(ctx context.Context, withRedis bool) error {
	sharedEnv.mu.Lock()
	defer sharedEnv.mu.Unlock()

	mongoContainer, err := SetupMongoDB(ctx)
	if err != nil {
		return err
	}
	sharedEnv.mongo = mongoContainer

	if withRedis {
		redisContainer, err := SetupRedis(ctx)
		if err != nil {
			_ = mongoContainer.Cleanup(ctx)
			return err
		}
		sharedEnv.redis = redisContainer
	}
	return nil
}

func cleanupShared(ctx context.Context) error {
	sharedEnv.mu.Lock()
	defer sharedEnv.mu.Unlock()

	var errs []error
	if sharedEnv.mongo != nil {
		errs = append(errs, sharedEnv.mongo.Cleanup(ctx))
	}
	if sharedEnv.redis != nil {
		errs = append(errs, sharedEnv.redis.Cleanup(ctx))
	}
	return errors.Join(errs...)
}

// GetSharedContainerURI returns the MongoDB connection string.
// Panics if TestMain did not start the shared containers.
func GetSharedContainerURI() string {
	sharedEnv.mu.RLock()
	defer sharedEnv.mu.RUnlock()

	if sharedEnv.mongo == nil {
		panic("shared MongoDB container not initialized - call SetupTestMainWithMongoDB in TestMain")
	}
	return sharedEnv.mongo.URI
}

// GetSharedRedisOptions returns connection options for the shared Redis container.
// Panics if TestMain did not start Redis.
func GetSharedRedisOptions() *redis.Options {
	sharedEnv.mu.RLock()
	defer sharedEnv.mu.RUnlock()

	if sharedEnv.redis == nil {
		panic("shared Redis container not initialized - call SetupTestMainWithMongoDBAndRedis in TestMain")
	}
	opts, err := redis.ParseURL(sharedEnv.redis.URL)
	if err != nil {
		panic(err)
	}
	return opts
}

// SanitizeDBName turns a test name into a MongoDB database name: separators
// become underscores, the name is capped at 50 characters and a numeric suffix
// keeps parallel subtests apart.
func SanitizeDBName(testName string) string {
	sanitized := strings.NewReplacer("/", "_", "\\", "_", ".", "_", " ", "_", "$", "_").Replace(testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return sanitized + "_" + strconv.FormatInt(time.Now().UnixNano()%1000000, 10)
}
