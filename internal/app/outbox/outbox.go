package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"minpaku/internal/domain/shared/events"
)

type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	Aggregate  string
	OccurredAt time.Time
}

// Outbox buffers domain events recorded inside a request until a worker
// publishes them to the broker.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

type JSONEventEncoder struct{}

func (JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, err
	}
	return EventRecord{
		ID:         uuid.NewString(),
		Name:       ev.EventName(),
		Payload:    payload,
		Aggregate:  ev.AggregateID(),
		OccurredAt: ev.OccurredAt(),
	}, nil
}

// RecordDomainEvents encodes and appends pending aggregate events. A nil
// outbox drops them, which is the dev-mode behavior.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, evs []events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	for _, ev := range evs {
		rec, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
