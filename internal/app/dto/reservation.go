package dto

import (
	"time"

	domainreservation "minpaku/internal/domain/reservation"
)

// DraftSummary echoes a stored reservation draft back to the client between
// the input and finalize steps.
type DraftSummary struct {
	HouseID        string    `json:"house_id"`
	CheckinDate    time.Time `json:"checkin_date"`
	CheckoutDate   time.Time `json:"checkout_date"`
	NumberOfPeople int       `json:"number_of_people"`
	Amount         int64     `json:"amount"`
}

// Confirmation pairs the draft with the payment session the client must
// complete.
type Confirmation struct {
	Draft       DraftSummary `json:"draft"`
	HouseName   string       `json:"house_name"`
	PaymentID   string       `json:"payment_id"`
	RedirectURL string       `json:"redirect_url"`
}

type Reservation struct {
	ID             string    `json:"id"`
	HouseID        string    `json:"house_id"`
	CheckinDate    time.Time `json:"checkin_date"`
	CheckoutDate   time.Time `json:"checkout_date"`
	NumberOfPeople int       `json:"number_of_people"`
	Amount         int64     `json:"amount"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReservationCollection struct {
	Items []Reservation `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
}

func MapDraftSummary(d domainreservation.Draft) DraftSummary {
	return DraftSummary{
		HouseID:        d.HouseID,
		CheckinDate:    d.CheckinDate,
		CheckoutDate:   d.CheckoutDate,
		NumberOfPeople: d.NumberOfPeople,
		Amount:         d.Amount,
	}
}

func MapReservation(r *domainreservation.Reservation) Reservation {
	if r == nil {
		return Reservation{}
	}
	return Reservation{
		ID:             string(r.ID),
		HouseID:        string(r.HouseID),
		CheckinDate:    r.CheckinDate,
		CheckoutDate:   r.CheckoutDate,
		NumberOfPeople: r.NumberOfPeople,
		Amount:         r.Amount,
		CreatedAt:      r.CreatedAt,
	}
}

func MapReservationCollection(page domainreservation.Page) ReservationCollection {
	items := make([]Reservation, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, MapReservation(r))
	}
	return ReservationCollection{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
	}
}
