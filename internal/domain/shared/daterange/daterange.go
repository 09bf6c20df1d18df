package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: checkout must be after checkin")

// StayRange represents a half-open interval [checkin, checkout) of calendar
// days. Both bounds are truncated to midnight UTC so a range never carries a
// time component.
type StayRange struct {
	Checkin  time.Time
	Checkout time.Time
}

func New(checkin, checkout time.Time) (StayRange, error) {
	sr := StayRange{Checkin: Day(checkin), Checkout: Day(checkout)}
	if err := sr.Validate(); err != nil {
		return StayRange{}, err
	}
	return sr, nil
}

func (sr StayRange) Validate() error {
	if sr.Checkin.IsZero() || sr.Checkout.IsZero() {
		return ErrInvalidRange
	}
	if !sr.Checkout.After(sr.Checkin) {
		return ErrInvalidRange
	}
	return nil
}

// Nights counts the nights stayed, exclusive of the checkout day itself.
func (sr StayRange) Nights() int {
	return int(sr.Checkout.Sub(sr.Checkin).Hours() / 24)
}

func (sr StayRange) Overlaps(other StayRange) bool {
	return sr.Checkin.Before(other.Checkout) && other.Checkin.Before(sr.Checkout)
}

// Day strips the time component, keeping the calendar date in UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
