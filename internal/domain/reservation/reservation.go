package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"minpaku/internal/domain/house"
	"minpaku/internal/domain/shared/events"
)

var (
	ErrInvalidGuests     = errors.New("reservation: number of people must be positive")
	ErrInvalidAmount     = errors.New("reservation: amount must be positive")
	ErrUserRequired      = errors.New("reservation: user id is required")
	ErrPaymentRefMissing = errors.New("reservation: payment reference is required")
	// ErrDuplicatePaymentRef is returned by Save when the payment reference
	// already belongs to a stored reservation; the caller lost a finalize race.
	ErrDuplicatePaymentRef = errors.New("reservation: payment reference already stored")
	// ErrPaymentRefInUse marks a payment reference owned by a different user.
	ErrPaymentRefInUse = errors.New("reservation: payment reference belongs to another user")
	ErrNotFound        = errors.New("reservation: not found")
)

type ReservationID string

// Reservation is the persisted, terminal state of a draft. Created exactly
// once per confirmed payment and never mutated afterwards.
type Reservation struct {
	ID             ReservationID
	HouseID        house.HouseID
	UserID         string
	CheckinDate    time.Time
	CheckoutDate   time.Time
	NumberOfPeople int
	Amount         int64
	PaymentRef     string
	CreatedAt      time.Time
	events.EventRecorder
}

type Page struct {
	Items []*Reservation
	Total int
	Page  int
	Size  int
}

type Repository interface {
	ByID(ctx context.Context, id ReservationID) (*Reservation, error)
	// ByPaymentRef is the finalize idempotency probe: a hit means this
	// payment was already materialized and must not produce a second row.
	ByPaymentRef(ctx context.Context, ref string) (*Reservation, error)
	Save(ctx context.Context, r *Reservation) error
	ListByUser(ctx context.Context, userID string, page, size int) (Page, error)
}

type CreateParams struct {
	ID         ReservationID
	HouseID    house.HouseID
	UserID     string
	Draft      Draft
	PaymentRef string
	Now        time.Time
}

func New(params CreateParams) (*Reservation, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("reservation: id is required")
	}
	if strings.TrimSpace(params.UserID) == "" {
		return nil, ErrUserRequired
	}
	if strings.TrimSpace(params.PaymentRef) == "" {
		return nil, ErrPaymentRefMissing
	}
	if params.Draft.NumberOfPeople <= 0 {
		return nil, ErrInvalidGuests
	}
	if params.Draft.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !params.Draft.CheckinDate.Before(params.Draft.CheckoutDate) {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "checkinDate",
			Message: "checkin date must be before the checkout date",
		}}}
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	r := &Reservation{
		ID:             params.ID,
		HouseID:        params.HouseID,
		UserID:         params.UserID,
		CheckinDate:    params.Draft.CheckinDate,
		CheckoutDate:   params.Draft.CheckoutDate,
		NumberOfPeople: params.Draft.NumberOfPeople,
		Amount:         params.Draft.Amount,
		PaymentRef:     strings.TrimSpace(params.PaymentRef),
		CreatedAt:      now,
	}
	r.Record(Confirmed{
		ReservationID: r.ID,
		HouseID:       r.HouseID,
		UserID:        r.UserID,
		Amount:        r.Amount,
		At:            now,
	})
	return r, nil
}
