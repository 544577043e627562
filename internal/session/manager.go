package session

import (
	"fmt"
	"sync"
)

// Manager is a registry of live sessions keyed by id. Sessions are
// independent; the map lock is the only thing they share.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewManager returns an empty registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Controller)}
}

// Add registers c. Ids must be unique.
func (m *Manager) Add(c *Controller) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[c.ID()]; exists {
		return fmt.Errorf("session %q already registered", c.ID())
	}
	m.sessions[c.ID()] = c
	return nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Controller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sessions[id]
	return c, ok
}

// Remove drops the session with the given id, if present.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// TimeoutAll forces every registered session to complete, for shutdown.
// It returns how many sessions this call completed.
func (m *Manager) TimeoutAll() int {
	m.mu.RLock()
	live := make([]*Controller, 0, len(m.sessions))
	for _, c := range m.sessions {
		live = append(live, c)
	}
	m.mu.RUnlock()

	n := 0
	for _, c := range live {
		if c.Timeout() {
			n++
		}
	}
	return n
}
