package service

import (
	"sync"

	"fmode-core/internal/model"
)

// SessionStore holds the single active wallet session. Sessions are
// immutable values: the store swaps whole pointers, it never mutates one.
type SessionStore struct {
	mu      sync.RWMutex
	session *model.WalletSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Get returns the active session, or nil when disconnected.
func (s *SessionStore) Get() *model.WalletSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Replace installs a new session (or nil to disconnect) and returns the one
// it displaced.
func (s *SessionStore) Replace(session *model.WalletSession) *model.WalletSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.session
	s.session = session
	return old
}
