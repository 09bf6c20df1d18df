package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"minpaku/internal/app/policies"
	"minpaku/internal/domain/house"
	"minpaku/internal/domain/reservation"
	"minpaku/internal/infra/storage/memory"
)

type stubPayments struct {
	calls   int
	last    policies.CreateSessionParams
	failErr error
}

func (s *stubPayments) CreateSession(ctx context.Context, params policies.CreateSessionParams) (policies.PaymentSession, error) {
	s.calls++
	s.last = params
	if s.failErr != nil {
		return policies.PaymentSession{}, s.failErr
	}
	if params.Amount <= 0 {
		return policies.PaymentSession{}, policies.ErrPaymentInvalidAmount
	}
	return policies.PaymentSession{
		ID:          fmt.Sprintf("pay-%d", s.calls),
		RedirectURL: "https://checkout.example/" + fmt.Sprintf("pay-%d", s.calls),
	}, nil
}

type fixture struct {
	service  *Service
	houses   *memory.HouseRepository
	drafts   *memory.DraftStore
	payments *stubPayments
	outbox   *memory.Outbox
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	houses := memory.NewHouseRepository()
	drafts := memory.NewDraftStore()
	payments := &stubPayments{}
	box := memory.NewOutbox()
	svc := NewService(Config{
		Houses:       houses,
		Reservations: memory.NewReservationRepository(),
		Drafts:       drafts,
		Payments:     payments,
		Outbox:       box,
		SuccessURL:   "https://app.example/reservations",
		CancelURL:    "https://app.example/houses",
		Now:          func() time.Time { return time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC) },
	})

	h, err := house.New(house.CreateParams{
		ID:       "house-1",
		Name:     "Sakura Cottage",
		Price:    5000,
		Capacity: 4,
		Address:  "Tokyo, Setagaya",
		Now:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("house fixture: %v", err)
	}
	if err := houses.Save(context.Background(), h); err != nil {
		t.Fatalf("save house: %v", err)
	}
	return fixture{service: svc, houses: houses, drafts: drafts, payments: payments, outbox: box}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInputStoresPricedDraft(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	draft, err := fx.service.Input(ctx, InputParams{
		SessionID:      "session-1",
		HouseID:        "house-1",
		CheckinDate:    date(2024, time.June, 1),
		CheckoutDate:   date(2024, time.June, 3),
		NumberOfPeople: 2,
	})
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if draft.Amount != 10000 {
		t.Errorf("Amount = %d, want 10000", draft.Amount)
	}

	stored, ok, err := fx.drafts.Get(ctx, "session-1")
	if err != nil || !ok {
		t.Fatalf("draft not stored: ok %v, err %v", ok, err)
	}
	if stored != draft {
		t.Errorf("stored draft %+v != returned %+v", stored, draft)
	}
}

func TestInputRejectsOverCapacity(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.service.Input(ctx, InputParams{
		SessionID:      "session-1",
		HouseID:        "house-1",
		CheckinDate:    date(2024, time.June, 1),
		CheckoutDate:   date(2024, time.June, 3),
		NumberOfPeople: 5,
	})
	var validation *reservation.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Input() error = %v, want *ValidationError", err)
	}
	if len(validation.Fields) != 1 || validation.Fields[0].Field != "numberOfPeople" {
		t.Errorf("fields = %v", validation.Fields)
	}
	if _, ok, _ := fx.drafts.Get(ctx, "session-1"); ok {
		t.Error("invalid input must not store a draft")
	}
}

func TestInputUnknownHouse(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.service.Input(context.Background(), InputParams{
		SessionID:      "session-1",
		HouseID:        "missing",
		CheckinDate:    date(2024, time.June, 1),
		CheckoutDate:   date(2024, time.June, 3),
		NumberOfPeople: 2,
	})
	if !errors.Is(err, house.ErrNotFound) {
		t.Errorf("Input() error = %v, want house.ErrNotFound", err)
	}
}

func TestInputOverwritesPreviousDraft(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	mustInput(t, fx, "session-1", date(2024, time.June, 1), date(2024, time.June, 3), 2)
	second, err := fx.service.Input(ctx, InputParams{
		SessionID:      "session-1",
		HouseID:        "house-1",
		CheckinDate:    date(2024, time.July, 10),
		CheckoutDate:   date(2024, time.July, 11),
		NumberOfPeople: 1,
	})
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}

	stored, ok, _ := fx.drafts.Get(ctx, "session-1")
	if !ok || stored != second {
		t.Errorf("stored draft %+v, want overwrite %+v", stored, second)
	}
	if stored.Amount != 5000 {
		t.Errorf("Amount = %d, want 5000", stored.Amount)
	}
}

func TestConfirmOpensPaymentSession(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	mustInput(t, fx, "session-1", date(2024, time.June, 1), date(2024, time.June, 3), 2)
	confirmation, err := fx.service.Confirm(ctx, "session-1")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if confirmation.Draft.Amount != 10000 {
		t.Errorf("Amount = %d, want 10000", confirmation.Draft.Amount)
	}
	if confirmation.PaymentID == "" || confirmation.RedirectURL == "" {
		t.Errorf("payment session incomplete: %+v", confirmation)
	}
	if confirmation.House.Name != "Sakura Cottage" {
		t.Errorf("house = %q", confirmation.House.Name)
	}

	// The draft survives confirm so finalize can read it.
	if _, ok, _ := fx.drafts.Get(ctx, "session-1"); !ok {
		t.Error("confirm must not clear the draft")
	}

	// The provider reference is opaque; the session token stays server-side.
	if fx.payments.last.Reference == "" || fx.payments.last.Reference == "session-1" {
		t.Errorf("provider reference = %q, must not expose the session token", fx.payments.last.Reference)
	}
}

func TestConfirmWithoutDraft(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.service.Confirm(context.Background(), "session-1")
	if !errors.Is(err, reservation.ErrDraftMissing) {
		t.Errorf("Confirm() error = %v, want ErrDraftMissing", err)
	}
	if fx.payments.calls != 0 {
		t.Errorf("payment called %d times without a draft", fx.payments.calls)
	}
}

func TestConfirmPaymentFailureKeepsDraft(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	mustInput(t, fx, "session-1", date(2024, time.June, 1), date(2024, time.June, 3), 2)
	fx.payments.failErr = policies.ErrPaymentUnavailable

	_, err := fx.service.Confirm(ctx, "session-1")
	if !errors.Is(err, policies.ErrPaymentUnavailable) {
		t.Fatalf("Confirm() error = %v, want ErrPaymentUnavailable", err)
	}
	if _, ok, _ := fx.drafts.Get(ctx, "session-1"); !ok {
		t.Error("payment failure must leave the draft for retry")
	}

	// Retry succeeds once the provider recovers.
	fx.payments.failErr = nil
	if _, err := fx.service.Confirm(ctx, "session-1"); err != nil {
		t.Errorf("retry Confirm() error = %v", err)
	}
}

func TestFinalizeFlow(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	mustInput(t, fx, "session-1", date(2024, time.May, 1), date(2024, time.May, 4), 2)

	r, err := fx.service.Finalize(ctx, FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-1",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if r.Amount != 15000 {
		t.Errorf("Amount = %d, want 15000", r.Amount)
	}
	if r.UserID != "user-1" || r.PaymentRef != "pay-1" {
		t.Errorf("reservation = %+v", r)
	}

	// Draft is gone, house counter bumped, event queued.
	if _, ok, _ := fx.drafts.Get(ctx, "session-1"); ok {
		t.Error("finalize must clear the draft")
	}
	h, _ := fx.houses.ByID(ctx, "house-1")
	if h.ReservationCount != 1 {
		t.Errorf("ReservationCount = %d, want 1", h.ReservationCount)
	}
	if fx.outbox.Pending() != 1 {
		t.Errorf("outbox pending = %d, want 1", fx.outbox.Pending())
	}

	// Replay with the same payment ref returns the stored reservation.
	again, err := fx.service.Finalize(ctx, FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-1",
	})
	if err != nil {
		t.Fatalf("replay Finalize() error = %v", err)
	}
	if again.ID != r.ID {
		t.Errorf("replay returned %s, want %s", again.ID, r.ID)
	}
	h, _ = fx.houses.ByID(ctx, "house-1")
	if h.ReservationCount != 1 {
		t.Errorf("replay bumped ReservationCount to %d", h.ReservationCount)
	}
	if fx.outbox.Pending() != 1 {
		t.Errorf("replay queued another event, pending = %d", fx.outbox.Pending())
	}
}

func TestFinalizeForeignPaymentRef(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	mustInput(t, fx, "session-1", date(2024, time.June, 1), date(2024, time.June, 3), 2)
	first, err := fx.service.Finalize(ctx, FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-shared",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	// Another user replaying the same reference gets a conflict, not the
	// first user's reservation, and keeps their own draft.
	mustInput(t, fx, "session-2", date(2024, time.July, 1), date(2024, time.July, 2), 1)
	_, err = fx.service.Finalize(ctx, FinalizeParams{
		SessionID:  "session-2",
		UserID:     "user-2",
		PaymentRef: "pay-shared",
	})
	if !errors.Is(err, reservation.ErrPaymentRefInUse) {
		t.Fatalf("foreign ref Finalize() error = %v, want ErrPaymentRefInUse", err)
	}
	if _, ok, _ := fx.drafts.Get(ctx, "session-2"); !ok {
		t.Error("conflict must leave the second user's draft in place")
	}
	page, err := fx.service.ListByUser(ctx, "user-2", 1, 10)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if page.Total != 0 {
		t.Errorf("user-2 reservations = %d, want 0", page.Total)
	}

	// The first user's replay still resolves to the stored reservation.
	again, err := fx.service.Finalize(ctx, FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-shared",
	})
	if err != nil || again.ID != first.ID {
		t.Errorf("owner replay = %v, %v; want %s", again, err, first.ID)
	}
	h, _ := fx.houses.ByID(ctx, "house-1")
	if h.ReservationCount != 1 {
		t.Errorf("ReservationCount = %d, want 1", h.ReservationCount)
	}
}

// blindProbeRepo simulates the finalize race: the idempotency probe misses
// while another request's row is already behind the unique reference index.
type blindProbeRepo struct {
	*memory.ReservationRepository
	misses int
}

func (r *blindProbeRepo) ByPaymentRef(ctx context.Context, ref string) (*reservation.Reservation, error) {
	if r.misses > 0 {
		r.misses--
		return nil, reservation.ErrNotFound
	}
	return r.ReservationRepository.ByPaymentRef(ctx, ref)
}

func TestFinalizeDuplicateRefRace(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	repo := &blindProbeRepo{ReservationRepository: memory.NewReservationRepository()}
	svc := NewService(Config{
		Houses:       fx.houses,
		Reservations: repo,
		Drafts:       fx.drafts,
		Payments:     fx.payments,
		Outbox:       fx.outbox,
	})

	mustInputOn(t, svc, "session-1", date(2024, time.June, 1), date(2024, time.June, 3), 2)
	first, err := svc.Finalize(ctx, FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-race",
	})
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	// Same user loses the race: probe misses, save hits the unique
	// reference, the winning row comes back and the draft is cleared.
	mustInputOn(t, svc, "session-1", date(2024, time.June, 10), date(2024, time.June, 12), 2)
	repo.misses = 1
	winner, err := svc.Finalize(ctx, FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-race",
	})
	if err != nil {
		t.Fatalf("racing Finalize() error = %v", err)
	}
	if winner.ID != first.ID {
		t.Errorf("race returned %s, want winner %s", winner.ID, first.ID)
	}
	if _, ok, _ := fx.drafts.Get(ctx, "session-1"); ok {
		t.Error("draft must be cleared after the race resolves to the caller")
	}

	// A different user losing the same race gets the conflict.
	mustInputOn(t, svc, "session-2", date(2024, time.July, 1), date(2024, time.July, 3), 2)
	repo.misses = 1
	_, err = svc.Finalize(ctx, FinalizeParams{
		SessionID:  "session-2",
		UserID:     "user-2",
		PaymentRef: "pay-race",
	})
	if !errors.Is(err, reservation.ErrPaymentRefInUse) {
		t.Fatalf("foreign race Finalize() error = %v, want ErrPaymentRefInUse", err)
	}
	if _, ok, _ := fx.drafts.Get(ctx, "session-2"); !ok {
		t.Error("conflict must leave the loser's draft in place")
	}
}

func TestFinalizeWithoutDraft(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.service.Finalize(context.Background(), FinalizeParams{
		SessionID:  "session-1",
		UserID:     "user-1",
		PaymentRef: "pay-1",
	})
	if !errors.Is(err, reservation.ErrDraftMissing) {
		t.Errorf("Finalize() error = %v, want ErrDraftMissing", err)
	}
}

func TestFinalizeRequiresPaymentRef(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	mustInput(t, fx, "session-1", date(2024, time.June, 1), date(2024, time.June, 3), 2)

	_, err := fx.service.Finalize(ctx, FinalizeParams{SessionID: "session-1", UserID: "user-1"})
	if !errors.Is(err, reservation.ErrPaymentRefMissing) {
		t.Fatalf("Finalize() error = %v, want ErrPaymentRefMissing", err)
	}
	if _, ok, _ := fx.drafts.Get(ctx, "session-1"); !ok {
		t.Error("failed finalize must leave the draft")
	}
}

func TestListByUser(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mustInput(t, fx, "session-1", date(2024, time.June, 1+i), date(2024, time.June, 3+i), 2)
		if _, err := fx.service.Finalize(ctx, FinalizeParams{
			SessionID:  "session-1",
			UserID:     "user-1",
			PaymentRef: fmt.Sprintf("pay-%d", i),
		}); err != nil {
			t.Fatalf("Finalize(%d) error = %v", i, err)
		}
	}

	page, err := fx.service.ListByUser(ctx, "user-1", 1, 10)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Errorf("page = total %d, items %d; want 3, 3", page.Total, len(page.Items))
	}

	other, err := fx.service.ListByUser(ctx, "user-2", 1, 10)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if other.Total != 0 {
		t.Errorf("other user total = %d, want 0", other.Total)
	}
}

func mustInput(t *testing.T, fx fixture, session string, checkin, checkout time.Time, people int) {
	t.Helper()
	mustInputOn(t, fx.service, session, checkin, checkout, people)
}

func mustInputOn(t *testing.T, svc *Service, session string, checkin, checkout time.Time, people int) {
	t.Helper()
	if _, err := svc.Input(context.Background(), InputParams{
		SessionID:      session,
		HouseID:        "house-1",
		CheckinDate:    checkin,
		CheckoutDate:   checkout,
		NumberOfPeople: people,
	}); err != nil {
		t.Fatalf("Input() error = %v", err)
	}
}
