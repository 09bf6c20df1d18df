package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"minpaku/internal/app/policies"
)

// CheckoutClient creates payment sessions against an external checkout
// provider over plain HTTP. One request per call, bounded by the client
// timeout, never retried; the caller decides what a failure means for the
// pending draft.
type CheckoutClient struct {
	Client   *http.Client
	Endpoint string
	Logger   *slog.Logger
}

type checkoutRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type checkoutResponse struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
}

func (c *CheckoutClient) CreateSession(ctx context.Context, params policies.CreateSessionParams) (policies.PaymentSession, error) {
	var zero policies.PaymentSession

	if c == nil || c.Client == nil {
		return zero, errors.New("payments: http client not configured")
	}
	if c.Endpoint == "" {
		return zero, errors.New("payments: endpoint not configured")
	}
	if params.Amount <= 0 {
		return zero, policies.ErrPaymentInvalidAmount
	}

	body, err := json.Marshal(checkoutRequest{
		Amount:      params.Amount,
		Description: params.Description,
		Reference:   params.Reference,
		SuccessURL:  params.SuccessURL,
		CancelURL:   params.CancelURL,
	})
	if err != nil {
		return zero, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("checkout request failed", params.Reference, err)
		return zero, fmt.Errorf("%w: %v", policies.ErrPaymentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: status %d: %s", policies.ErrPaymentRejected, resp.StatusCode, string(snippet))
		c.logError("checkout returned error", params.Reference, err)
		return zero, err
	}

	var payload checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logError("checkout decode failed", params.Reference, err)
		return zero, fmt.Errorf("%w: %v", policies.ErrPaymentUnavailable, err)
	}
	if payload.ID == "" {
		return zero, fmt.Errorf("%w: empty session id", policies.ErrPaymentRejected)
	}

	if c.Logger != nil {
		c.Logger.Info("checkout session created", "session_id", payload.ID, "reference", params.Reference, "amount", params.Amount)
	}
	return policies.PaymentSession{ID: payload.ID, RedirectURL: payload.RedirectURL}, nil
}

func (c *CheckoutClient) logError(msg, reference string, err error) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error(msg, "reference", reference, "error", err)
}

var _ policies.PaymentsPort = (*CheckoutClient)(nil)
