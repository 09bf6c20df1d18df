package favorite

import (
	"context"
	"errors"
	"time"

	"minpaku/internal/domain/house"
)

var ErrNotFound = errors.New("favorite: not found")

// Favorite marks a (house, user) pair. The pair is unique: adding an existing
// favorite is a no-op and removing deletes the single row.
type Favorite struct {
	ID        string
	HouseID   house.HouseID
	UserID    string
	CreatedAt time.Time
}

type Page struct {
	Items []*Favorite
	Total int
	Page  int
	Size  int
}

type Repository interface {
	Exists(ctx context.Context, houseID house.HouseID, userID string) (bool, error)
	Save(ctx context.Context, f *Favorite) error
	Delete(ctx context.Context, houseID house.HouseID, userID string) error
	ListByUser(ctx context.Context, userID string, page, size int) (Page, error)
}
