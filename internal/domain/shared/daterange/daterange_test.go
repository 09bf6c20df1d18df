package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		checkin  time.Time
		checkout time.Time
		wantErr  error
	}{
		{
			name:     "one night",
			checkin:  date(2024, time.May, 1),
			checkout: date(2024, time.May, 2),
		},
		{
			name:     "equal dates rejected",
			checkin:  date(2024, time.May, 1),
			checkout: date(2024, time.May, 1),
			wantErr:  ErrInvalidRange,
		},
		{
			name:     "reversed dates rejected",
			checkin:  date(2024, time.May, 4),
			checkout: date(2024, time.May, 1),
			wantErr:  ErrInvalidRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.checkin, tt.checkout)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTruncatesTimeComponent(t *testing.T) {
	sr, err := New(
		time.Date(2024, time.May, 1, 15, 30, 0, 0, time.UTC),
		time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !sr.Checkin.Equal(date(2024, time.May, 1)) {
		t.Errorf("Checkin = %v, want midnight", sr.Checkin)
	}
	if sr.Nights() != 1 {
		t.Errorf("Nights() = %d, want 1", sr.Nights())
	}
}

func TestNights(t *testing.T) {
	sr, err := New(date(2024, time.May, 1), date(2024, time.May, 4))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := sr.Nights(); got != 3 {
		t.Errorf("Nights() = %d, want 3", got)
	}
}

func TestOverlaps(t *testing.T) {
	base, _ := New(date(2024, time.May, 10), date(2024, time.May, 15))
	tests := []struct {
		name  string
		other StayRange
		want  bool
	}{
		{"same range", StayRange{date(2024, time.May, 10), date(2024, time.May, 15)}, true},
		{"contained", StayRange{date(2024, time.May, 11), date(2024, time.May, 13)}, true},
		{"partial front", StayRange{date(2024, time.May, 8), date(2024, time.May, 11)}, true},
		{"touching checkout", StayRange{date(2024, time.May, 15), date(2024, time.May, 18)}, false},
		{"touching checkin", StayRange{date(2024, time.May, 7), date(2024, time.May, 10)}, false},
		{"disjoint", StayRange{date(2024, time.June, 1), date(2024, time.June, 3)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
