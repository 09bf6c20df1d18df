package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"minpaku/internal/app/policies"
)

func sessionParams() policies.CreateSessionParams {
	return policies.CreateSessionParams{
		Amount:      30000,
		Description: "Sakura Cottage 2024-05-01 - 2024-05-04",
		Reference:   "session-1",
		SuccessURL:  "https://app.example/reservations",
		CancelURL:   "https://app.example/houses",
	}
}

func TestCreateSession(t *testing.T) {
	var received checkoutRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(checkoutResponse{
			ID:          "pay-123",
			RedirectURL: "https://checkout.example/pay-123",
		})
	}))
	defer server.Close()

	client := &CheckoutClient{Client: server.Client(), Endpoint: server.URL}
	session, err := client.CreateSession(context.Background(), sessionParams())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.ID != "pay-123" || session.RedirectURL != "https://checkout.example/pay-123" {
		t.Errorf("session = %+v", session)
	}
	if received.Amount != 30000 || received.Reference != "session-1" {
		t.Errorf("request = %+v", received)
	}
}

func TestCreateSessionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "card declined", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := &CheckoutClient{Client: server.Client(), Endpoint: server.URL}
	_, err := client.CreateSession(context.Background(), sessionParams())
	if !errors.Is(err, policies.ErrPaymentRejected) {
		t.Errorf("CreateSession() error = %v, want ErrPaymentRejected", err)
	}
}

func TestCreateSessionProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := &CheckoutClient{Client: http.DefaultClient, Endpoint: server.URL}
	_, err := client.CreateSession(context.Background(), sessionParams())
	if !errors.Is(err, policies.ErrPaymentUnavailable) {
		t.Errorf("CreateSession() error = %v, want ErrPaymentUnavailable", err)
	}
}

func TestCreateSessionMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := &CheckoutClient{Client: server.Client(), Endpoint: server.URL}
	_, err := client.CreateSession(context.Background(), sessionParams())
	if !errors.Is(err, policies.ErrPaymentUnavailable) {
		t.Errorf("CreateSession() error = %v, want ErrPaymentUnavailable", err)
	}
}

func TestCreateSessionEmptySessionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(checkoutResponse{})
	}))
	defer server.Close()

	client := &CheckoutClient{Client: server.Client(), Endpoint: server.URL}
	_, err := client.CreateSession(context.Background(), sessionParams())
	if !errors.Is(err, policies.ErrPaymentRejected) {
		t.Errorf("CreateSession() error = %v, want ErrPaymentRejected", err)
	}
}

func TestCreateSessionInvalidAmount(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := &CheckoutClient{Client: server.Client(), Endpoint: server.URL}
	params := sessionParams()
	params.Amount = 0
	_, err := client.CreateSession(context.Background(), params)
	if !errors.Is(err, policies.ErrPaymentInvalidAmount) {
		t.Errorf("CreateSession() error = %v, want ErrPaymentInvalidAmount", err)
	}
	if called {
		t.Error("provider called for a non-positive amount")
	}
}
