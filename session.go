// this file implements the in-memory session registry
package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionEntry struct {
	userID    int64
	expiresAt time.Time
}

// SessionStore keeps live sessions in memory with a sliding expiry: every
// successful lookup pushes the deadline out by the TTL. Sessions do not
// survive a restart, which matches the rest of the process (neither does
// playback state).
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]sessionEntry
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]sessionEntry),
	}
}

// Create opens a session for the user and returns its id.
func (s *SessionStore) Create(userID int64) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sessionEntry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return id
}

// UserID resolves a session id, extending the session on success. Expired
// sessions are removed on the spot.
func (s *SessionStore) UserID(sessionID string) (int64, bool) {
	if sessionID == "" {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok {
		return 0, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, sessionID)
		return 0, false
	}

	entry.expiresAt = time.Now().Add(s.ttl)
	s.sessions[sessionID] = entry
	return entry.userID, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
