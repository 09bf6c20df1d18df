package reservation

import (
	"context"
	"errors"
	"time"
)

// ErrDraftMissing signals the session-timeout class of failure: the caller
// should send the user back to the listing to re-enter the reservation.
var ErrDraftMissing = errors.New("reservation: no pending draft for this session")

// Draft is the transient reservation proposal held in server-side session
// state between the input and finalize steps. It is never persisted; a
// session holds at most one and a new Put replaces the previous one.
type Draft struct {
	HouseID        string
	CheckinDate    time.Time
	CheckoutDate   time.Time
	NumberOfPeople int
	Amount         int64
}

// DraftStore is a single-slot store keyed by session identity. Get reports
// absence through the bool rather than an error because an expired session is
// an expected, recoverable condition.
type DraftStore interface {
	Put(ctx context.Context, sessionID string, draft Draft) error
	Get(ctx context.Context, sessionID string) (Draft, bool, error)
	Clear(ctx context.Context, sessionID string) error
}
