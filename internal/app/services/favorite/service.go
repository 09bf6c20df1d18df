package favorite

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainfavorite "minpaku/internal/domain/favorite"
	"minpaku/internal/domain/house"
)

type Service struct {
	Favorites domainfavorite.Repository
	Houses    house.Repository
	Logger    *slog.Logger
}

// Add marks a house as a favorite. Adding an already-favorited house is a
// no-op; the (house, user) pair stays unique.
func (s *Service) Add(ctx context.Context, houseID house.HouseID, userID string) error {
	if _, err := s.Houses.ByID(ctx, houseID); err != nil {
		return err
	}
	exists, err := s.Favorites.Exists(ctx, houseID, userID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	f := &domainfavorite.Favorite{
		ID:        uuid.NewString(),
		HouseID:   houseID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Favorites.Save(ctx, f); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("favorite added", "house_id", houseID, "user_id", userID)
	}
	return nil
}

// Remove deletes the pair; removing a non-favorite reports not found.
func (s *Service) Remove(ctx context.Context, houseID house.HouseID, userID string) error {
	return s.Favorites.Delete(ctx, houseID, userID)
}

func (s *Service) ListByUser(ctx context.Context, userID string, page, size int) (domainfavorite.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = house.DefaultPageSize
	}
	return s.Favorites.ListByUser(ctx, userID, page, size)
}
