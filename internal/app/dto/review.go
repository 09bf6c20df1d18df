package dto

import (
	"time"

	domainreview "minpaku/internal/domain/review"
)

// Review represents a public review payload.
type Review struct {
	ID        string    `json:"id"`
	HouseID   string    `json:"house_id"`
	UserID    string    `json:"user_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewCollection struct {
	Items []Review `json:"items"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Size  int      `json:"size"`
}

func MapReview(r *domainreview.Review) Review {
	if r == nil {
		return Review{}
	}
	return Review{
		ID:        string(r.ID),
		HouseID:   string(r.HouseID),
		UserID:    r.UserID,
		Score:     r.Score,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func MapReviewCollection(page domainreview.Page) ReviewCollection {
	items := make([]Review, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, MapReview(r))
	}
	return ReviewCollection{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
	}
}
