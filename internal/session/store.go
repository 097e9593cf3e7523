// Package session keeps per-conversation chat history in memory.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Exchange is one completed user/assistant round trip.
type Exchange struct {
	User      string
	Assistant string
}

// Store is a concurrency-safe registry of session histories keyed by id.
// Histories are capped at maxPairs exchanges; the oldest entries are
// dropped first. A non-positive limit disables trimming.
type Store struct {
	mu       sync.RWMutex
	maxPairs int
	sessions map[string][]Exchange
}

func NewStore(maxPairs int) *Store {
	return &Store{
		maxPairs: maxPairs,
		sessions: make(map[string][]Exchange),
	}
}

// Create registers a new empty session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	return id
}

// Append records a completed exchange, creating the session if needed.
func (s *Store) Append(id, user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[id], Exchange{User: user, Assistant: assistant})
	if s.maxPairs > 0 && len(history) > s.maxPairs {
		history = history[len(history)-s.maxPairs:]
	}
	s.sessions[id] = history
}

// Get returns a copy of the session's history, oldest exchange first.
// The second return value reports whether the session exists.
func (s *Store) Get(id string) ([]Exchange, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	out := make([]Exchange, len(history))
	copy(out, history)
	return out, true
}

// Clear removes the session and its history. Unknown ids are a no-op.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len reports the number of stored exchanges for a session.
func (s *Store) Len(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[id])
}
