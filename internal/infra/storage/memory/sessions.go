package memory

import (
	"context"
	"sync"

	"minpaku/internal/domain/auth"
	"minpaku/internal/domain/user"
)

type SessionStore struct {
	mu    sync.RWMutex
	items map[auth.Token]*auth.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[auth.Token]*auth.Session)}
}

func (s *SessionStore) Save(ctx context.Context, session *auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.items[session.Token] = &copied
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token auth.Token) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.items[token]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *SessionStore) Delete(ctx context.Context, token auth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

func (s *SessionStore) DeleteByUser(ctx context.Context, userID user.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.items {
		if session.UserID == userID {
			delete(s.items, token)
		}
	}
	return nil
}

var _ auth.SessionStore = (*SessionStore)(nil)
