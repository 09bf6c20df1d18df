package memory

import (
	"context"
	"testing"
	"time"

	"minpaku/internal/domain/reservation"
)

func TestDraftStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewDraftStore()

	if _, ok, err := store.Get(ctx, "session-1"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}

	first := reservation.Draft{
		HouseID:        "house-1",
		CheckinDate:    time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		CheckoutDate:   time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		NumberOfPeople: 2,
		Amount:         10000,
	}
	if err := store.Put(ctx, "session-1", first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := store.Get(ctx, "session-1")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if got != first {
		t.Errorf("Get() = %+v, want %+v", got, first)
	}

	// A second Put replaces the stored draft.
	second := first
	second.HouseID = "house-2"
	second.Amount = 24000
	if err := store.Put(ctx, "session-1", second); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got, ok, _ = store.Get(ctx, "session-1")
	if !ok || got != second {
		t.Errorf("after overwrite Get() = %+v, want %+v", got, second)
	}

	// Sessions do not see each other's drafts.
	if _, ok, _ := store.Get(ctx, "session-2"); ok {
		t.Error("draft leaked into another session")
	}

	if err := store.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, "session-1"); ok {
		t.Error("draft still present after Clear")
	}

	// Clearing an absent draft is a no-op.
	if err := store.Clear(ctx, "session-1"); err != nil {
		t.Errorf("Clear() on empty = %v", err)
	}
}
