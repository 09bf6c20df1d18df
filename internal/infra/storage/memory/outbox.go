package memory

import (
	"context"
	"sync"

	appoutbox "minpaku/internal/app/outbox"
)

// Outbox is a FIFO queue of pending event records: services append, the
// worker drains.
type Outbox struct {
	mu      sync.Mutex
	records []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Next(ctx context.Context) (*appoutbox.EventRecord, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.records) == 0 {
		return nil, nil
	}
	record := o.records[0]
	o.records = o.records[1:]
	return &record, nil
}

func (o *Outbox) Requeue(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append([]appoutbox.EventRecord{record}, o.records...)
	return nil
}

// Pending reports the queue depth, used by tests and readiness reporting.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

var _ appoutbox.Outbox = (*Outbox)(nil)
