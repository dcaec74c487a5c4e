package service

import (
	"context"
	"sync"
)

// CounterKeyPrefix is the fixed name of the successful-submission counter.
const CounterKeyPrefix = "prestamos_submission_count"

// CounterKey returns the counter key for a client.
func CounterKey(clientID string) string {
	return CounterKeyPrefix + ":" + clientID
}

// SubmissionCounter persists how many submissions a client has completed.
type SubmissionCounter interface {
	Get(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
}

// MemoryCounter is a process-local SubmissionCounter.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewMemoryCounter creates an empty in-memory counter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int64)}
}

func (m *MemoryCounter) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key], nil
}

func (m *MemoryCounter) Increment(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}
