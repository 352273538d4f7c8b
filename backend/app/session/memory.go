package session

import (
	"context"
	"postboard/backend/app/models"
	"sync"
	"time"
)

type MemoryStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	byID map[string]Session
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, byID: make(map[string]Session), now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, userID uint, role models.Role) (*Session, error) {
	s := newSession(userID, role)
	s.CreatedAt = m.now()
	m.mu.Lock()
	m.byID[s.ID] = *s
	m.mu.Unlock()
	return s, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.byID[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && m.now().Sub(s.CreatedAt) > m.ttl {
		m.mu.Lock()
		delete(m.byID, id)
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
