package memory

import (
	"context"
	"sort"
	"sync"

	"minpaku/internal/domain/house"
	"minpaku/internal/domain/review"
)

type ReviewRepository struct {
	mu    sync.RWMutex
	items map[review.ReviewID]*review.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{items: make(map[review.ReviewID]*review.Review)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id review.ReviewID) (*review.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.items[id]
	if !ok {
		return nil, review.ErrNotFound
	}
	return cloneReview(rv), nil
}

func (r *ReviewRepository) ListByHouse(ctx context.Context, houseID house.HouseID, page, size int) (review.Page, error) {
	r.mu.RLock()
	matched := make([]*review.Review, 0)
	for _, rv := range r.items {
		if rv.HouseID == houseID {
			matched = append(matched, cloneReview(rv))
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
	return review.Page{
		Items: matched[offset:end],
		Total: total,
		Page:  page,
		Size:  size,
	}, nil
}

func (r *ReviewRepository) HasUserReviewed(ctx context.Context, houseID house.HouseID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rv := range r.items {
		if rv.HouseID == houseID && rv.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rv.ID] = cloneReview(rv)
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id review.ReviewID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return review.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneReview(rv *review.Review) *review.Review {
	if rv == nil {
		return nil
	}
	copied := *rv
	return &copied
}

var _ review.Repository = (*ReviewRepository)(nil)
