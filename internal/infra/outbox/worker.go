package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	appoutbox "minpaku/internal/app/outbox"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Queue is the drain side of the request-scoped outbox: Next pops the oldest
// pending record, Requeue puts a failed one back at the front.
type Queue interface {
	Next(ctx context.Context) (*appoutbox.EventRecord, error)
	Requeue(ctx context.Context, record appoutbox.EventRecord) error
}

// Worker drains the outbox and publishes each record as a CloudEvents JSON
// envelope. One record per tick keeps ordering per aggregate without claims.
type Worker struct {
	Queue       Queue
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	Logger      *slog.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.processOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *Worker) processOnce(ctx context.Context) error {
	rec, err := w.Queue.Next(ctx)
	if err != nil || rec == nil {
		return err
	}
	payload, headers, err := w.formatPayload(rec)
	if err != nil {
		if w.Logger != nil {
			w.Logger.Error("outbox record malformed, dropped", "event_id", rec.ID, "error", err)
		}
		return nil
	}
	if err := w.Producer.Publish(ctx, w.topicFor(rec.Name), rec.Aggregate, payload, headers); err != nil {
		if w.Logger != nil {
			w.Logger.Warn("outbox publish failed", "event_id", rec.ID, "error", err)
		}
		return w.Queue.Requeue(ctx, *rec)
	}
	return nil
}

func (w *Worker) formatPayload(rec *appoutbox.EventRecord) ([]byte, map[string]string, error) {
	data := map[string]any{}
	if err := json.Unmarshal(rec.Payload, &data); err != nil {
		return nil, nil, err
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            rec.Name + ".v1",
		"source":          w.source(),
		"time":            rec.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
	}
	return payload, headers, nil
}

func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	topic := base + ".events.v1"
	if w.TopicPrefix != "" {
		topic = w.TopicPrefix + topic
	}
	return topic
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://minpaku"
}
