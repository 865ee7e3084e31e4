package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory
type MemoryStore struct {
	ttl      time.Duration
	sessions map[string]Session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryStore creates an in-memory store. A ttl of zero uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Get returns a copy of the stored session
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok || m.now().Sub(s.UpdatedAt) > m.ttl {
		return nil, ErrNotFound
	}

	s.Form = s.Form.Clone()
	return &s, nil
}

// Save stores a copy of s, bumping its version and timestamp. It returns
// ErrConflict if the stored session has a different version.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evictLocked()
	if current, ok := m.sessions[s.ID]; ok && current.Version != s.Version {
		return ErrConflict
	}

	s.Version++
	s.UpdatedAt = m.now()
	stored := *s
	stored.Form = s.Form.Clone()
	m.sessions[s.ID] = stored
	return nil
}

// Delete removes a session; deleting an unknown id is not an error
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked()
	return len(m.sessions)
}

func (m *MemoryStore) evictLocked() {
	now := m.now()
	for id, s := range m.sessions {
		if now.Sub(s.UpdatedAt) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
