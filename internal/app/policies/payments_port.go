package policies

import (
	"context"
	"errors"
)

var (
	// ErrPaymentInvalidAmount covers amounts <= 0, rejected before any call
	// leaves the process.
	ErrPaymentInvalidAmount = errors.New("payments: amount must be positive")
	// ErrPaymentUnavailable is a transport-level failure; the draft stays put
	// and the user may retry.
	ErrPaymentUnavailable = errors.New("payments: provider unreachable")
	// ErrPaymentRejected is a provider-side refusal.
	ErrPaymentRejected = errors.New("payments: provider rejected the session")
)

type CreateSessionParams struct {
	Amount      int64
	Description string
	Reference   string
	SuccessURL  string
	CancelURL   string
}

type PaymentSession struct {
	ID          string
	RedirectURL string
}

// PaymentsPort creates a checkout session with the external payment
// collaborator. The call is synchronous with a bounded timeout and no retry.
type PaymentsPort interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (PaymentSession, error)
}
