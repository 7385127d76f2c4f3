// internal/advisor/session/store.go
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"pump-advisor/internal/models"
)

var ErrNotFound = errors.New("SESSION_NOT_FOUND")

// Store owns every live session. Get returns a copy; changes are persisted
// with Save, which also refreshes the last-access time.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id string) error
	EvictExpired(ctx context.Context, now time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

// Clock is injected so expiry can be tested without sleeping.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	ttl      time.Duration
	clock    Clock
}

func NewMemoryStore(ttl time.Duration, clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		ttl:      ttl,
		clock:    clock,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(m.clock(), m.ttl) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.Touch(m.clock())
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// EvictExpired removes sessions idle for longer than the TTL as of now.
func (m *MemoryStore) EvictExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.Expired(now, m.ttl) {
			delete(m.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}
