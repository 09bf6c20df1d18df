package reservation

import (
	"strings"
	"time"
)

// FieldError ties a violated rule to the offending form field so the input
// form can re-render with per-field messages.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "reservation: invalid input (" + strings.Join(msgs, "; ") + ")"
}

// IsCheckinBeforeCheckout reports whether checkin is strictly earlier than
// checkout. Equal dates are a zero-night stay and invalid.
func IsCheckinBeforeCheckout(checkin, checkout time.Time) bool {
	return checkin.Before(checkout)
}

// WithinCapacity reports whether the party size fits the house.
func WithinCapacity(numberOfPeople, capacity int) bool {
	return numberOfPeople > 0 && numberOfPeople <= capacity
}

// ValidateStay checks the date ordering and capacity rules on well-formed
// values. Missing-field detection belongs to the binding layer, not here.
// Both rules are evaluated so one submission can collect both errors.
func ValidateStay(checkin, checkout time.Time, numberOfPeople, capacity int) error {
	var fields []FieldError
	if !IsCheckinBeforeCheckout(checkin, checkout) {
		fields = append(fields, FieldError{
			Field:   "checkinDate",
			Message: "checkin date must be before the checkout date",
		})
	}
	if !WithinCapacity(numberOfPeople, capacity) {
		fields = append(fields, FieldError{
			Field:   "numberOfPeople",
			Message: "number of people must be between 1 and the house capacity",
		})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
