package pricing

import (
	"errors"
	"time"

	"minpaku/internal/domain/shared/daterange"
)

var (
	ErrNoNights     = errors.New("pricing: stay must cover at least one night")
	ErrInvalidPrice = errors.New("pricing: price per night must be positive")
)

// Nights returns the whole days between checkin and checkout, exclusive of
// the checkout day itself.
func Nights(checkin, checkout time.Time) int {
	return int(daterange.Day(checkout).Sub(daterange.Day(checkin)).Hours() / 24)
}

// CalculateAmount computes nights * pricePerNight. Amounts are whole currency
// units throughout; there is no fractional arithmetic to round.
func CalculateAmount(checkin, checkout time.Time, pricePerNight int64) (int64, error) {
	if pricePerNight <= 0 {
		return 0, ErrInvalidPrice
	}
	nights := Nights(checkin, checkout)
	if nights < 1 {
		return 0, ErrNoNights
	}
	return int64(nights) * pricePerNight, nil
}
