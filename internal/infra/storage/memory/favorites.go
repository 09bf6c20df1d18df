package memory

import (
	"context"
	"sort"
	"sync"

	"minpaku/internal/domain/favorite"
	"minpaku/internal/domain/house"
)

type favoriteKey struct {
	houseID house.HouseID
	userID  string
}

type FavoriteRepository struct {
	mu    sync.RWMutex
	items map[favoriteKey]*favorite.Favorite
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{items: make(map[favoriteKey]*favorite.Favorite)}
}

func (r *FavoriteRepository) Exists(ctx context.Context, houseID house.HouseID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[favoriteKey{houseID: houseID, userID: userID}]
	return ok, nil
}

// Save keys on the (house, user) pair, so a double add stays a single row.
func (r *FavoriteRepository) Save(ctx context.Context, f *favorite.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *f
	r.items[favoriteKey{houseID: f.HouseID, userID: f.UserID}] = &copied
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, houseID house.HouseID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favoriteKey{houseID: houseID, userID: userID}
	if _, ok := r.items[key]; !ok {
		return favorite.ErrNotFound
	}
	delete(r.items, key)
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, page, size int) (favorite.Page, error) {
	r.mu.RLock()
	matched := make([]*favorite.Favorite, 0)
	for _, f := range r.items {
		if f.UserID == userID {
			copied := *f
			matched = append(matched, &copied)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	total := len(matched)
	offset := (page - 1) * size
	if offset > total {
		offset = total
	}
	end := offset + size
	if end > total {
		end = total
	}
	return favorite.Page{
		Items: matched[offset:end],
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

var _ favorite.Repository = (*FavoriteRepository)(nil)
