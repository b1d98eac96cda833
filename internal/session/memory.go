package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the token and profile in process memory. It is the
// default backing and the one tests use.
type MemoryStore struct {
	mu      sync.RWMutex
	token   string
	profile *Profile
}

// NewMemoryStore returns an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryStore) SetToken(_ context.Context, token string, profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.profile = cloneProfile(profile)
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.profile = nil
	return nil
}

func (s *MemoryStore) Profile(context.Context) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProfile(s.profile), nil
}

func cloneProfile(p *Profile) *Profile {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}
