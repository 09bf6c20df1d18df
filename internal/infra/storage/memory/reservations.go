package memory

import (
	"context"
	"sort"
	"sync"

	"minpaku/internal/domain/reservation"
	"minpaku/internal/domain/shared/events"
)

type ReservationRepository struct {
	mu    sync.RWMutex
	items map[reservation.ReservationID]*reservation.Reservation
	byRef map[string]reservation.ReservationID
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{
		items: make(map[reservation.ReservationID]*reservation.Reservation),
		byRef: make(map[string]reservation.ReservationID),
	}
}

func (r *ReservationRepository) ByID(ctx context.Context, id reservation.ReservationID) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return cloneReservation(res), nil
}

func (r *ReservationRepository) ByPaymentRef(ctx context.Context, ref string) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRef[ref]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return cloneReservation(r.items[id]), nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// The payment reference is unique across reservations, mirroring the
	// mongo index.
	if id, ok := r.byRef[res.PaymentRef]; ok && id != res.ID {
		return reservation.ErrDuplicatePaymentRef
	}
	r.items[res.ID] = cloneReservation(res)
	r.byRef[res.PaymentRef] = res.ID
	return nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, page, size int) (reservation.Page, error) {
	r.mu.RLock()
	matched := make([]*reservation.Reservation, 0)
	for _, res := range r.items {
		if res.UserID == userID {
			matched = append(matched, cloneReservation(res))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	return paginateReservations(matched, page, size), nil
}

func paginateReservations(items []*reservation.Reservation, page, size int) reservation.Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	total := len(items)
	offset := (page - 1) * size
	if offset > total {
		offset = total
	}
	end := offset + size
	if end > total {
		end = total
	}
	return reservation.Page{
		Items: items[offset:end],
		Total: total,
		Page:  page,
		Size:  size,
	}
}

func cloneReservation(res *reservation.Reservation) *reservation.Reservation {
	if res == nil {
		return nil
	}
	copied := *res
	// Pending events stay with the aggregate the service holds, not the
	// stored copy.
	copied.EventRecorder = events.EventRecorder{}
	return &copied
}

var _ reservation.Repository = (*ReservationRepository)(nil)
