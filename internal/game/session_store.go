package game

import (
	"sync"

	"github.com/google/uuid"
)

// SessionStore is the seam between the engine and whatever keeps sessions.
// The in-memory store below is the default; a persistent implementation can
// plug in behind the same interface.
type SessionStore interface {
	Save(s *Session)
	Load(id uuid.UUID) (*Session, bool)
	Delete(id uuid.UUID)
	All() []*Session
}

// MemorySessionStore keeps live sessions in a mutex-guarded map.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]*Session)}
}

func (m *MemorySessionStore) Save(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *MemorySessionStore) Load(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MemorySessionStore) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *MemorySessionStore) All() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}
