package memory

import (
	"context"
	"sync"

	"minpaku/internal/domain/auth"
)

type VerificationStore struct {
	mu    sync.RWMutex
	items map[string]*auth.VerificationToken
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{items: make(map[string]*auth.VerificationToken)}
}

func (s *VerificationStore) Save(ctx context.Context, vt *auth.VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *vt
	s.items[vt.Token] = &copied
	return nil
}

func (s *VerificationStore) Get(ctx context.Context, token string) (*auth.VerificationToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vt, ok := s.items[token]
	if !ok {
		return nil, auth.ErrVerificationNotFound
	}
	copied := *vt
	return &copied, nil
}

func (s *VerificationStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

var _ auth.VerificationStore = (*VerificationStore)(nil)
