package dto

import (
	"time"

	domainfavorite "minpaku/internal/domain/favorite"
)

type Favorite struct {
	HouseID   string    `json:"house_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteCollection struct {
	Items []Favorite `json:"items"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Size  int        `json:"size"`
}

func MapFavoriteCollection(page domainfavorite.Page) FavoriteCollection {
	items := make([]Favorite, 0, len(page.Items))
	for _, f := range page.Items {
		items = append(items, Favorite{
			HouseID:   string(f.HouseID),
			CreatedAt: f.CreatedAt,
		})
	}
	return FavoriteCollection{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
	}
}
