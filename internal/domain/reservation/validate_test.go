package reservation

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateStay(t *testing.T) {
	tests := []struct {
		name       string
		checkin    time.Time
		checkout   time.Time
		people     int
		capacity   int
		wantFields []string
	}{
		{
			name:     "valid stay",
			checkin:  date(2024, time.June, 1),
			checkout: date(2024, time.June, 3),
			people:   2,
			capacity: 4,
		},
		{
			name:       "equal dates invalid",
			checkin:    date(2024, time.June, 1),
			checkout:   date(2024, time.June, 1),
			people:     2,
			capacity:   4,
			wantFields: []string{"checkinDate"},
		},
		{
			name:       "reversed dates invalid",
			checkin:    date(2024, time.June, 3),
			checkout:   date(2024, time.June, 1),
			people:     2,
			capacity:   4,
			wantFields: []string{"checkinDate"},
		},
		{
			name:       "party over capacity",
			checkin:    date(2024, time.June, 1),
			checkout:   date(2024, time.June, 3),
			people:     5,
			capacity:   4,
			wantFields: []string{"numberOfPeople"},
		},
		{
			name:       "zero people",
			checkin:    date(2024, time.June, 1),
			checkout:   date(2024, time.June, 3),
			people:     0,
			capacity:   4,
			wantFields: []string{"numberOfPeople"},
		},
		{
			name:     "party at capacity",
			checkin:  date(2024, time.June, 1),
			checkout: date(2024, time.June, 3),
			people:   4,
			capacity: 4,
		},
		{
			name:       "both violations reported together",
			checkin:    date(2024, time.June, 3),
			checkout:   date(2024, time.June, 1),
			people:     9,
			capacity:   4,
			wantFields: []string{"checkinDate", "numberOfPeople"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStay(tt.checkin, tt.checkout, tt.people, tt.capacity)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateStay() error = %v, want nil", err)
				}
				return
			}
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("ValidateStay() error = %v, want *ValidationError", err)
			}
			if len(validation.Fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors, want %d: %v", len(validation.Fields), len(tt.wantFields), validation.Fields)
			}
			for i, want := range tt.wantFields {
				if validation.Fields[i].Field != want {
					t.Errorf("field[%d] = %q, want %q", i, validation.Fields[i].Field, want)
				}
			}
		})
	}
}

func TestCapacityMessageCoversBothBounds(t *testing.T) {
	const want = "number of people must be between 1 and the house capacity"
	for _, people := range []int{0, -1, 5} {
		err := ValidateStay(date(2024, time.June, 1), date(2024, time.June, 3), people, 4)
		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("ValidateStay(%d people) error = %v, want *ValidationError", people, err)
		}
		if got := validation.Fields[0].Message; got != want {
			t.Errorf("message for %d people = %q, want %q", people, got, want)
		}
	}
}

func TestNewReservation(t *testing.T) {
	draft := Draft{
		HouseID:        "house-1",
		CheckinDate:    date(2024, time.June, 1),
		CheckoutDate:   date(2024, time.June, 3),
		NumberOfPeople: 2,
		Amount:         20000,
	}
	now := date(2024, time.May, 20)

	r, err := New(CreateParams{
		ID:         "res-1",
		HouseID:    "house-1",
		UserID:     "user-1",
		Draft:      draft,
		PaymentRef: "pay-1",
		Now:        now,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.Amount != 20000 || r.PaymentRef != "pay-1" {
		t.Errorf("reservation = %+v", r)
	}
	events := r.PendingEvents()
	if len(events) != 1 {
		t.Fatalf("got %d pending events, want 1", len(events))
	}
	if events[0].EventName() != "reservation.confirmed" {
		t.Errorf("event name = %q", events[0].EventName())
	}

	if _, err := New(CreateParams{ID: "res-2", HouseID: "house-1", UserID: "user-1", Draft: draft, Now: now}); !errors.Is(err, ErrPaymentRefMissing) {
		t.Errorf("missing payment ref error = %v, want ErrPaymentRefMissing", err)
	}
	if _, err := New(CreateParams{ID: "res-3", HouseID: "house-1", Draft: draft, PaymentRef: "pay-3", Now: now}); !errors.Is(err, ErrUserRequired) {
		t.Errorf("missing user error = %v, want ErrUserRequired", err)
	}
}
