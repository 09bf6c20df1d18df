package house

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired      = errors.New("house: id is required")
	ErrNameRequired    = errors.New("house: name is required")
	ErrInvalidPrice    = errors.New("house: price per night must be positive")
	ErrInvalidCapacity = errors.New("house: capacity must be at least 1")
	ErrNotFound        = errors.New("house: not found")
)

type HouseID string

// House is a bookable listing. The booking core only reads it; all mutation
// happens through admin management operations, except the denormalized
// ReservationCount which finalize bumps.
type House struct {
	ID               HouseID
	Name             string
	Description      string
	Price            int64
	Capacity         int
	PostalCode       string
	Address          string
	PhoneNumber      string
	ImageName        string
	ReservationCount int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Repository interface {
	ByID(ctx context.Context, id HouseID) (*House, error)
	Save(ctx context.Context, h *House) error
	Delete(ctx context.Context, id HouseID) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	Newest(ctx context.Context, limit int) ([]*House, error)
	Popular(ctx context.Context, limit int) ([]*House, error)
}

type CreateParams struct {
	ID          HouseID
	Name        string
	Description string
	Price       int64
	Capacity    int
	PostalCode  string
	Address     string
	PhoneNumber string
	ImageName   string
	Now         time.Time
}

func New(params CreateParams) (*House, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if params.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if params.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &House{
		ID:          params.ID,
		Name:        strings.TrimSpace(params.Name),
		Description: strings.TrimSpace(params.Description),
		Price:       params.Price,
		Capacity:    params.Capacity,
		PostalCode:  strings.TrimSpace(params.PostalCode),
		Address:     strings.TrimSpace(params.Address),
		PhoneNumber: strings.TrimSpace(params.PhoneNumber),
		ImageName:   strings.TrimSpace(params.ImageName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type UpdateParams struct {
	Name        string
	Description string
	Price       int64
	Capacity    int
	PostalCode  string
	Address     string
	PhoneNumber string
	ImageName   string
	Now         time.Time
}

func (h *House) Update(params UpdateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if params.Price <= 0 {
		return ErrInvalidPrice
	}
	if params.Capacity < 1 {
		return ErrInvalidCapacity
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	h.Name = strings.TrimSpace(params.Name)
	h.Description = strings.TrimSpace(params.Description)
	h.Price = params.Price
	h.Capacity = params.Capacity
	h.PostalCode = strings.TrimSpace(params.PostalCode)
	h.Address = strings.TrimSpace(params.Address)
	h.PhoneNumber = strings.TrimSpace(params.PhoneNumber)
	if img := strings.TrimSpace(params.ImageName); img != "" {
		h.ImageName = img
	}
	h.UpdatedAt = now.UTC()
	return nil
}

// RecordReservation bumps the popularity counter used by the home feed.
func (h *House) RecordReservation(now time.Time) {
	h.ReservationCount++
	h.UpdatedAt = now.UTC()
}
