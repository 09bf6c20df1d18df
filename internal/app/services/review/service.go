package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"minpaku/internal/domain/house"
	domainreview "minpaku/internal/domain/review"
	"minpaku/internal/domain/user"
)

var ErrAlreadyReviewed = errors.New("review: user already reviewed this house")

type Service struct {
	Reviews domainreview.Repository
	Houses  house.Repository
	Logger  *slog.Logger
}

func (s *Service) ListByHouse(ctx context.Context, houseID house.HouseID, page, size int) (domainreview.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = house.DefaultPageSize
	}
	return s.Reviews.ListByHouse(ctx, houseID, page, size)
}

type PostParams struct {
	HouseID house.HouseID
	Score   int
	Comment string
}

// Post stores a new review after checking the house exists and the author has
// not reviewed it before.
func (s *Service) Post(ctx context.Context, actor *user.User, params PostParams) (*domainreview.Review, error) {
	if _, err := s.Houses.ByID(ctx, params.HouseID); err != nil {
		return nil, err
	}
	posted, err := s.Reviews.HasUserReviewed(ctx, params.HouseID, string(actor.ID))
	if err != nil {
		return nil, err
	}
	if posted {
		return nil, ErrAlreadyReviewed
	}
	r, err := domainreview.Post(domainreview.PostParams{
		ID:      domainreview.ReviewID(uuid.NewString()),
		HouseID: params.HouseID,
		UserID:  string(actor.ID),
		Score:   params.Score,
		Comment: params.Comment,
		Now:     time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("review posted", "review_id", r.ID, "house_id", r.HouseID)
	}
	return r, nil
}

// Update edits an existing review; only the author may touch it.
func (s *Service) Update(ctx context.Context, actor *user.User, id domainreview.ReviewID, score int, comment string) (*domainreview.Review, error) {
	r, err := s.Reviews.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != string(actor.ID) {
		return nil, domainreview.ErrNotOwner
	}
	if err := r.Edit(score, comment, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a review. Authors delete their own; admins may delete any.
func (s *Service) Delete(ctx context.Context, actor *user.User, id domainreview.ReviewID) error {
	r, err := s.Reviews.ByID(ctx, id)
	if err != nil {
		return err
	}
	if r.UserID != string(actor.ID) && !actor.IsAdmin() {
		return domainreview.ErrNotOwner
	}
	if err := s.Reviews.Delete(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("review deleted", "review_id", id)
	}
	return nil
}
