package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/loan-request-service/internal/domain/model"
	"github.com/guttosm/loan-request-service/internal/metrics"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionCapacity bounds the in-memory store.
const DefaultSessionCapacity = 10000

// SessionStore persists composer sessions.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// SendClaimer is implemented by stores shared between replicas. ClaimSend
// marks a session as being sent and reports false when another process holds
// the claim. A claim lapses after ttl if it is never released.
type SendClaimer interface {
	ClaimSend(ctx context.Context, id string, ttl time.Duration) (bool, error)
	ReleaseSend(ctx context.Context, id string) error
}

// MemorySessionStore keeps sessions in an LRU list with a sliding TTL: every
// Save pushes expiry out by ttl. Values are cloned on the way in and out.
type MemorySessionStore struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	items     map[string]*sessionEntry
	head      *sessionEntry
	tail      *sessionEntry
	stopCh    chan struct{}
	stopOnce  sync.Once
	evictions int64
}

type sessionEntry struct {
	id        string
	session   *model.Session
	expiresAt time.Time
	prev      *sessionEntry
	next      *sessionEntry
}

// NewMemorySessionStore creates a store and starts its cleanup loop. Call Close to stop it.
func NewMemorySessionStore(capacity int, ttl time.Duration) *MemorySessionStore {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	s := &MemorySessionStore{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*sessionEntry),
		stopCh:   make(chan struct{}),
	}
	go s.startCleanup(time.Minute)
	return s
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[id]
	if !ok {
		metrics.RecordSessionOperation("get", "miss")
		return nil, ErrSessionNotFound
	}
	if s.expired(entry, time.Now()) {
		s.removeEntry(entry)
		metrics.RecordSessionOperation("get", "expired")
		return nil, ErrSessionNotFound
	}

	s.moveToFront(entry)
	metrics.RecordSessionOperation("get", "hit")
	return entry.session.Clone(), nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := time.Now().Add(s.ttl)
	if entry, ok := s.items[session.ID]; ok {
		entry.session = session.Clone()
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		metrics.RecordSessionOperation("save", "update")
		return nil
	}

	entry := &sessionEntry{
		id:        session.ID,
		session:   session.Clone(),
		expiresAt: expiresAt,
	}
	s.items[session.ID] = entry
	s.addToFront(entry)

	if len(s.items) > s.capacity {
		s.removeTail()
		atomic.AddInt64(&s.evictions, 1)
		metrics.RecordSessionOperation("evict", "capacity")
	}
	metrics.RecordSessionOperation("save", "insert")
	metrics.UpdateActiveSessions(len(s.items))
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.items[id]; ok {
		s.removeEntry(entry)
		metrics.RecordSessionOperation("delete", "success")
	}
	return nil
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *MemorySessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

// Len returns the number of stored sessions, expired ones included until cleanup.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evictions returns how many sessions were dropped for capacity.
func (s *MemorySessionStore) Evictions() int64 {
	return atomic.LoadInt64(&s.evictions)
}

func (s *MemorySessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.After(entry.expiresAt)
}

func (s *MemorySessionStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup removes all expired sessions.
func (s *MemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, entry := range s.items {
		if s.expired(entry, now) {
			s.removeEntry(entry)
		}
	}
	metrics.UpdateActiveSessions(len(s.items))
}

func (s *MemorySessionStore) removeEntry(entry *sessionEntry) {
	delete(s.items, entry.id)
	s.unlink(entry)
	metrics.UpdateActiveSessions(len(s.items))
}

func (s *MemorySessionStore) moveToFront(entry *sessionEntry) {
	if entry == s.head {
		return
	}
	s.unlink(entry)
	s.addToFront(entry)
}

func (s *MemorySessionStore) addToFront(entry *sessionEntry) {
	entry.prev = nil
	entry.next = s.head
	if s.head != nil {
		s.head.prev = entry
	}
	s.head = entry
	if s.tail == nil {
		s.tail = entry
	}
}

func (s *MemorySessionStore) unlink(entry *sessionEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		s.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		s.tail = entry.prev
	}
	entry.prev, entry.next = nil, nil
}

// removeTail drops the least recently used session.
func (s *MemorySessionStore) removeTail() {
	if s.tail == nil {
		return
	}
	s.removeEntry(s.tail)
}
