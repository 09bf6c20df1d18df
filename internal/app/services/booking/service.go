package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"minpaku/internal/app/outbox"
	"minpaku/internal/app/policies"
	"minpaku/internal/domain/house"
	"minpaku/internal/domain/pricing"
	"minpaku/internal/domain/reservation"
)

// Service drives a reservation from form input to a persisted, paid booking.
// The draft lives in session state between the steps; nothing touches the
// datastore until Finalize.
type Service struct {
	houses       house.Repository
	reservations reservation.Repository
	drafts       reservation.DraftStore
	payments     policies.PaymentsPort
	outbox       outbox.Outbox
	successURL   string
	cancelURL    string
	now          func() time.Time
}

type Config struct {
	Houses       house.Repository
	Reservations reservation.Repository
	Drafts       reservation.DraftStore
	Payments     policies.PaymentsPort
	Outbox       outbox.Outbox
	SuccessURL   string
	CancelURL    string
	Now          func() time.Time
}

func NewService(cfg Config) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		houses:       cfg.Houses,
		reservations: cfg.Reservations,
		drafts:       cfg.Drafts,
		payments:     cfg.Payments,
		outbox:       cfg.Outbox,
		successURL:   cfg.SuccessURL,
		cancelURL:    cfg.CancelURL,
		now:          now,
	}
}

type InputParams struct {
	SessionID      string
	HouseID        house.HouseID
	CheckinDate    time.Time
	CheckoutDate   time.Time
	NumberOfPeople int
}

// Input validates the stay against the house, prices it and stores the draft
// under the caller's session. A repeated Input replaces the previous draft. On
// validation failure the draft is untouched and the field errors carry enough
// for the form to re-render with the previous dates.
func (s *Service) Input(ctx context.Context, params InputParams) (reservation.Draft, error) {
	h, err := s.houses.ByID(ctx, params.HouseID)
	if err != nil {
		return reservation.Draft{}, err
	}
	if err := reservation.ValidateStay(params.CheckinDate, params.CheckoutDate, params.NumberOfPeople, h.Capacity); err != nil {
		return reservation.Draft{}, err
	}
	amount, err := pricing.CalculateAmount(params.CheckinDate, params.CheckoutDate, h.Price)
	if err != nil {
		return reservation.Draft{}, err
	}
	draft := reservation.Draft{
		HouseID:        string(h.ID),
		CheckinDate:    params.CheckinDate,
		CheckoutDate:   params.CheckoutDate,
		NumberOfPeople: params.NumberOfPeople,
		Amount:         amount,
	}
	if err := s.drafts.Put(ctx, params.SessionID, draft); err != nil {
		return reservation.Draft{}, fmt.Errorf("store draft: %w", err)
	}
	return draft, nil
}

type Confirmation struct {
	Draft       reservation.Draft
	House       *house.House
	PaymentID   string
	RedirectURL string
}

// Confirm re-reads the pending draft, refreshes the house and opens a payment
// session. Payment failures propagate untouched so the caller can retry with
// the draft still in place. A house deleted mid-flow discards the draft and
// surfaces as the session-timeout class.
func (s *Service) Confirm(ctx context.Context, sessionID string) (Confirmation, error) {
	draft, ok, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return Confirmation{}, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return Confirmation{}, reservation.ErrDraftMissing
	}
	h, err := s.houses.ByID(ctx, house.HouseID(draft.HouseID))
	if err != nil {
		if errors.Is(err, house.ErrNotFound) {
			_ = s.drafts.Clear(ctx, sessionID)
			return Confirmation{}, reservation.ErrDraftMissing
		}
		return Confirmation{}, err
	}
	// The provider reference is a fresh opaque id; the session token is a
	// live credential and never leaves the process.
	session, err := s.payments.CreateSession(ctx, policies.CreateSessionParams{
		Amount: draft.Amount,
		Description: fmt.Sprintf("%s %s - %s",
			h.Name,
			draft.CheckinDate.Format("2006-01-02"),
			draft.CheckoutDate.Format("2006-01-02")),
		Reference:  uuid.NewString(),
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{
		Draft:       draft,
		House:       h,
		PaymentID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

type FinalizeParams struct {
	SessionID  string
	UserID     string
	PaymentRef string
}

// Finalize turns the pending draft into a persisted reservation, exactly once
// per payment reference. A replay with a reference already on file returns the
// stored reservation without writing anything; the replay must come from the
// reservation's own user, anyone else gets ErrPaymentRefInUse and keeps their
// draft. The draft is cleared only after the reservation and the house counter
// are saved, so a mid-flight failure leaves the session able to retry.
func (s *Service) Finalize(ctx context.Context, params FinalizeParams) (*reservation.Reservation, error) {
	if params.PaymentRef == "" {
		return nil, reservation.ErrPaymentRefMissing
	}
	existing, err := s.reservations.ByPaymentRef(ctx, params.PaymentRef)
	if err != nil && !errors.Is(err, reservation.ErrNotFound) {
		return nil, fmt.Errorf("idempotency probe: %w", err)
	}
	if existing != nil {
		return s.resolveReplay(ctx, existing, params)
	}
	draft, ok, err := s.drafts.Get(ctx, params.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return nil, reservation.ErrDraftMissing
	}
	h, err := s.houses.ByID(ctx, house.HouseID(draft.HouseID))
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r, err := reservation.New(reservation.CreateParams{
		ID:         reservation.ReservationID(uuid.NewString()),
		HouseID:    h.ID,
		UserID:     params.UserID,
		Draft:      draft,
		PaymentRef: params.PaymentRef,
		Now:        now,
	})
	if err != nil {
		return nil, err
	}
	if err := s.reservations.Save(ctx, r); err != nil {
		if errors.Is(err, reservation.ErrDuplicatePaymentRef) {
			// Lost a concurrent finalize on the same reference; the
			// winning row decides the outcome.
			winner, probeErr := s.reservations.ByPaymentRef(ctx, params.PaymentRef)
			if probeErr != nil {
				return nil, fmt.Errorf("idempotency probe: %w", probeErr)
			}
			return s.resolveReplay(ctx, winner, params)
		}
		return nil, fmt.Errorf("save reservation: %w", err)
	}
	h.RecordReservation(now)
	if err := s.houses.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("update house: %w", err)
	}
	if err := outbox.RecordDomainEvents(ctx, s.outbox, nil, r.PendingEvents()); err != nil {
		return nil, fmt.Errorf("record events: %w", err)
	}
	r.ClearEvents()
	if err := s.drafts.Clear(ctx, params.SessionID); err != nil {
		return nil, fmt.Errorf("clear draft: %w", err)
	}
	return r, nil
}

// resolveReplay settles a finalize whose payment reference is already on
// file. The reservation's own user gets the stored row back and their draft
// cleared; a different user keeps their draft and gets a conflict.
func (s *Service) resolveReplay(ctx context.Context, existing *reservation.Reservation, params FinalizeParams) (*reservation.Reservation, error) {
	if existing.UserID != params.UserID {
		return nil, reservation.ErrPaymentRefInUse
	}
	_ = s.drafts.Clear(ctx, params.SessionID)
	return existing, nil
}

// ListByUser returns the caller's confirmed reservations, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, page, size int) (reservation.Page, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = house.DefaultPageSize
	}
	return s.reservations.ListByUser(ctx, userID, page, size)
}
