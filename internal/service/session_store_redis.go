package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

const redisSessionPrefix = "loan-request:session"

var _ SendClaimer = (*RedisSessionStore)(nil)

// RedisSessionStore keeps sessions as JSON strings with a TTL refreshed on every Save.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisOptions configures a RedisSessionStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisSessionStore creates a store and pings the server.
func NewRedisSessionStore(ctx context.Context, opts RedisOptions) (*RedisSessionStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisSessionStoreWithClient(rdb, opts.TTL), nil
}

// NewRedisSessionStoreWithClient wraps an existing client.
func NewRedisSessionStoreWithClient(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: rdb, ttl: ttl}
}

func (r *RedisSessionStore) key(id string) string {
	return fmt.Sprintf("%s:%s", redisSessionPrefix, id)
}

func (r *RedisSessionStore) sendKey(id string) string {
	return r.key(id) + ":sending"
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordSessionOperation("get", "miss")
		return nil, ErrSessionNotFound
	}
	if err != nil {
		metrics.RecordSessionOperation("get", "error")
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	metrics.RecordSessionOperation("get", "hit")
	return &session, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, r.ttl).Err(); err != nil {
		metrics.RecordSessionOperation("save", "error")
		return fmt.Errorf("failed to store session: %w", err)
	}
	metrics.RecordSessionOperation("save", "success")
	return nil
}

// ClaimSend takes the per-session send lock with SET NX.
func (r *RedisSessionStore) ClaimSend(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.sendKey(id), "1", ttl).Result()
	if err != nil {
		metrics.RecordSessionOperation("claim", "error")
		return false, fmt.Errorf("failed to claim session: %w", err)
	}
	if !ok {
		metrics.RecordSessionOperation("claim", "held")
		return false, nil
	}
	metrics.RecordSessionOperation("claim", "success")
	return true, nil
}

func (r *RedisSessionStore) ReleaseSend(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.sendKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	metrics.RecordSessionOperation("delete", "success")
	return nil
}

// Ping checks the redis connection, for readiness probes.
func (r *RedisSessionStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSessionStore) Close() error {
	return r.client.Close()
}
