package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"minpaku/internal/domain/house"
)

type HouseRepository struct {
	mu    sync.RWMutex
	items map[house.HouseID]*house.House
}

func NewHouseRepository() *HouseRepository {
	return &HouseRepository{items: make(map[house.HouseID]*house.House)}
}

func (r *HouseRepository) ByID(ctx context.Context, id house.HouseID) (*house.House, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, house.ErrNotFound
	}
	return cloneHouse(h), nil
}

func (r *HouseRepository) Save(ctx context.Context, h *house.House) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[h.ID] = cloneHouse(h)
	return nil
}

func (r *HouseRepository) Delete(ctx context.Context, id house.HouseID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return house.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *HouseRepository) Search(ctx context.Context, params house.SearchParams) (house.SearchResult, error) {
	normalized := params.Normalized()
	r.mu.RLock()
	matched := make([]*house.House, 0, len(r.items))
	for _, h := range r.items {
		if matchesSearch(h, normalized) {
			matched = append(matched, cloneHouse(h))
		}
	}
	r.mu.RUnlock()

	switch normalized.Order {
	case house.SortByPriceAsc:
		sort.Slice(matched, func(i, j int) bool {
			if matched[i].Price != matched[j].Price {
				return matched[i].Price < matched[j].Price
			}
			return matched[i].ID < matched[j].ID
		})
	default:
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID < matched[j].ID
		})
	}

	total := len(matched)
	offset := normalized.Offset()
	if offset > total {
		offset = total
	}
	end := offset + normalized.Size
	if end > total {
		end = total
	}
	return house.SearchResult{
		Items: matched[offset:end],
		Total: total,
		Page:  normalized.Page,
		Size:  normalized.Size,
	}, nil
}

func (r *HouseRepository) Newest(ctx context.Context, limit int) ([]*house.House, error) {
	return r.topBy(limit, func(a, b *house.House) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (r *HouseRepository) Popular(ctx context.Context, limit int) ([]*house.House, error) {
	return r.topBy(limit, func(a, b *house.House) bool {
		if a.ReservationCount != b.ReservationCount {
			return a.ReservationCount > b.ReservationCount
		}
		return a.ID < b.ID
	})
}

func (r *HouseRepository) topBy(limit int, less func(a, b *house.House) bool) ([]*house.House, error) {
	r.mu.RLock()
	all := make([]*house.House, 0, len(r.items))
	for _, h := range r.items {
		all = append(all, cloneHouse(h))
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func matchesSearch(h *house.House, params house.SearchParams) bool {
	if params.Keyword != "" {
		name := strings.ToLower(h.Name)
		address := strings.ToLower(h.Address)
		if !strings.Contains(name, params.Keyword) && !strings.Contains(address, params.Keyword) {
			return false
		}
	}
	if params.Area != "" && !strings.Contains(strings.ToLower(h.Address), params.Area) {
		return false
	}
	if params.MaxPrice > 0 && h.Price > params.MaxPrice {
		return false
	}
	return true
}

func cloneHouse(h *house.House) *house.House {
	if h == nil {
		return nil
	}
	copied := *h
	return &copied
}

var _ house.Repository = (*HouseRepository)(nil)
