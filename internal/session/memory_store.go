package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is used when neither Redis nor Postgres is configured.
// Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenID] = expiresAt
	s.evictLocked()
	return nil
}

func (s *MemoryStore) Active(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.sessions[tokenID]
	return ok && s.now().Before(expiresAt), nil
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenID)
	return nil
}

func (s *MemoryStore) evictLocked() {
	now := s.now()
	for id, expiresAt := range s.sessions {
		if !now.Before(expiresAt) {
			delete(s.sessions, id)
		}
	}
}
