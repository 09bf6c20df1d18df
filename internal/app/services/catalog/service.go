package catalog

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"minpaku/internal/domain/favorite"
	"minpaku/internal/domain/house"
	"minpaku/internal/domain/review"
	"minpaku/internal/domain/user"
)

const (
	homeNewestLimit  = 8
	homePopularLimit = 3
)

// Service serves the public listing surface plus the admin-only house
// management operations.
type Service struct {
	Houses    house.Repository
	Reviews   review.Repository
	Favorites favorite.Repository
	Logger    *slog.Logger
}

func (s *Service) Search(ctx context.Context, params house.SearchParams) (house.SearchResult, error) {
	return s.Houses.Search(ctx, params)
}

type HomeFeed struct {
	Newest  []*house.House
	Popular []*house.House
}

// Home returns the landing-page feed: latest listings plus the most reserved.
func (s *Service) Home(ctx context.Context) (HomeFeed, error) {
	newest, err := s.Houses.Newest(ctx, homeNewestLimit)
	if err != nil {
		return HomeFeed{}, err
	}
	popular, err := s.Houses.Popular(ctx, homePopularLimit)
	if err != nil {
		return HomeFeed{}, err
	}
	return HomeFeed{Newest: newest, Popular: popular}, nil
}

type HouseDetail struct {
	House           *house.House
	Reviews         []*review.Review
	HasPostedReview bool
	HasFavorite     bool
}

// Detail returns a house with its latest reviews and the viewer's own flags.
// An empty viewerID means an anonymous request; both flags stay false.
func (s *Service) Detail(ctx context.Context, id house.HouseID, viewerID string) (HouseDetail, error) {
	h, err := s.Houses.ByID(ctx, id)
	if err != nil {
		return HouseDetail{}, err
	}
	page, err := s.Reviews.ListByHouse(ctx, id, 1, house.DefaultPageSize)
	if err != nil {
		return HouseDetail{}, err
	}
	detail := HouseDetail{House: h, Reviews: page.Items}
	if viewerID != "" {
		posted, err := s.Reviews.HasUserReviewed(ctx, id, viewerID)
		if err != nil {
			return HouseDetail{}, err
		}
		fav, err := s.Favorites.Exists(ctx, id, viewerID)
		if err != nil {
			return HouseDetail{}, err
		}
		detail.HasPostedReview = posted
		detail.HasFavorite = fav
	}
	return detail, nil
}

type HouseParams struct {
	Name        string
	Description string
	Price       int64
	Capacity    int
	PostalCode  string
	Address     string
	PhoneNumber string
	ImageName   string
}

// CreateHouse is admin only. The stored image name is regenerated so uploads
// cannot collide or leak the client's file name.
func (s *Service) CreateHouse(ctx context.Context, actor *user.User, params HouseParams) (*house.House, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	h, err := house.New(house.CreateParams{
		ID:          house.HouseID(uuid.NewString()),
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Capacity:    params.Capacity,
		PostalCode:  params.PostalCode,
		Address:     params.Address,
		PhoneNumber: params.PhoneNumber,
		ImageName:   regenerateImageName(params.ImageName),
		Now:         time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Houses.Save(ctx, h); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("house created", "house_id", h.ID, "name", h.Name)
	}
	return h, nil
}

func (s *Service) UpdateHouse(ctx context.Context, actor *user.User, id house.HouseID, params HouseParams) (*house.House, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	h, err := s.Houses.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.Update(house.UpdateParams{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Capacity:    params.Capacity,
		PostalCode:  params.PostalCode,
		Address:     params.Address,
		PhoneNumber: params.PhoneNumber,
		ImageName:   regenerateImageName(params.ImageName),
		Now:         time.Now(),
	}); err != nil {
		return nil, err
	}
	if err := s.Houses.Save(ctx, h); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("house updated", "house_id", h.ID)
	}
	return h, nil
}

func (s *Service) DeleteHouse(ctx context.Context, actor *user.User, id house.HouseID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.Houses.Delete(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("house deleted", "house_id", id)
	}
	return nil
}

var ErrForbidden = errors.New("catalog: admin role required")

func requireAdmin(actor *user.User) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func regenerateImageName(original string) string {
	original = strings.TrimSpace(original)
	if original == "" {
		return ""
	}
	return uuid.NewString() + path.Ext(original)
}
