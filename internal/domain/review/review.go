package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"minpaku/internal/domain/house"
)

var (
	ErrInvalidScore = errors.New("review: score must be between 1 and 5")
	ErrNotFound     = errors.New("review: not found")
	ErrNotOwner     = errors.New("review: only the author may modify a review")
)

type ReviewID string

type Review struct {
	ID        ReviewID
	HouseID   house.HouseID
	UserID    string
	Score     int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Page struct {
	Items []*Review
	Total int
	Page  int
	Size  int
}

type Repository interface {
	ByID(ctx context.Context, id ReviewID) (*Review, error)
	ListByHouse(ctx context.Context, houseID house.HouseID, page, size int) (Page, error)
	// HasUserReviewed backs the one-review-per-user check the detail page
	// performs before offering the post form.
	HasUserReviewed(ctx context.Context, houseID house.HouseID, userID string) (bool, error)
	Save(ctx context.Context, r *Review) error
	Delete(ctx context.Context, id ReviewID) error
}

type PostParams struct {
	ID      ReviewID
	HouseID house.HouseID
	UserID  string
	Score   int
	Comment string
	Now     time.Time
}

func Post(params PostParams) (*Review, error) {
	if params.Score < 1 || params.Score > 5 {
		return nil, ErrInvalidScore
	}
	if strings.TrimSpace(params.UserID) == "" {
		return nil, errors.New("review: user id is required")
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Review{
		ID:        params.ID,
		HouseID:   params.HouseID,
		UserID:    params.UserID,
		Score:     params.Score,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *Review) Edit(score int, comment string, now time.Time) error {
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	r.Score = score
	r.Comment = strings.TrimSpace(comment)
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
	return nil
}
