package memory

import (
	"context"
	"sync"

	"minpaku/internal/domain/reservation"
)

// DraftStore keeps at most one reservation draft per session key. Put
// replaces whatever was there; the second return of Get reports absence.
type DraftStore struct {
	mu    sync.RWMutex
	items map[string]reservation.Draft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{items: make(map[string]reservation.Draft)}
}

func (s *DraftStore) Put(ctx context.Context, sessionID string, draft reservation.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = draft
	return nil
}

func (s *DraftStore) Get(ctx context.Context, sessionID string) (reservation.Draft, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.items[sessionID]
	return draft, ok, nil
}

func (s *DraftStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

var _ reservation.DraftStore = (*DraftStore)(nil)
