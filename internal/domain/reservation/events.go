package reservation

import (
	"time"

	"minpaku/internal/domain/house"
)

// Confirmed is raised when a paid draft is materialized into a reservation.
type Confirmed struct {
	ReservationID ReservationID `json:"reservation_id"`
	HouseID       house.HouseID `json:"house_id"`
	UserID        string        `json:"user_id"`
	Amount        int64         `json:"amount"`
	At            time.Time     `json:"at"`
}

func (e Confirmed) EventName() string     { return "reservation.confirmed" }
func (e Confirmed) AggregateID() string   { return string(e.ReservationID) }
func (e Confirmed) OccurredAt() time.Time { return e.At }
