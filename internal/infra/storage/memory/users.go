package memory

import (
	"context"
	"sync"

	"minpaku/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[user.ID]*user.User
	byEmail map[string]user.ID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[user.ID]*user.User),
		byEmail: make(map[string]user.ID),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id user.ID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byEmail[u.Email]; ok && existingID != u.ID {
		return user.ErrEmailAlreadyUsed
	}
	if prev, ok := r.byID[u.ID]; ok && prev.Email != u.Email {
		delete(r.byEmail, prev.Email)
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func cloneUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

var _ user.Repository = (*UserRepository)(nil)
