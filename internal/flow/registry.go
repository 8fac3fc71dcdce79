package flow

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry manages session lifecycle. Sessions are handed out by ID so the
// request layer carries an explicit handle instead of a process singleton.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create creates and registers a new session.
func (r *Registry) Create() *Session {
	s := NewSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	log.Info().Str("session_id", s.ID).Msg("Session created")
	return s
}

// Get returns the session with the given ID. Returns (nil, false) if not found.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	return s, ok
}

// Destroy removes a session from the registry.
func (r *Registry) Destroy(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
