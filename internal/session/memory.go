package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-process session store for testing and dev mode.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemoryStore builds a memory-backed store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

// SetClock overrides the store clock. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Save stores the code under the token, resetting the expiry.
func (s *MemoryStore) Save(_ context.Context, token, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{code: code, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Load returns the code for a live session, clearing expired or
// corrupted entries.
func (s *MemoryStore) Load(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) || !storedCodePattern.MatchString(entry.code) {
		delete(s.sessions, token)
		return "", ErrNotFound
	}
	return entry.code, nil
}

// Clear removes the session unconditionally.
func (s *MemoryStore) Clear(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
