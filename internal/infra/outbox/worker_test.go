package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	appoutbox "minpaku/internal/app/outbox"
	"minpaku/internal/infra/storage/memory"
)

type published struct {
	topic   string
	key     string
	payload []byte
	headers map[string]string
}

type fakeProducer struct {
	messages []published
	failErr  error
}

func (p *fakeProducer) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.messages = append(p.messages, published{topic: topic, key: key, payload: payload, headers: headers})
	return nil
}

func record(name, aggregate string, payload string) appoutbox.EventRecord {
	return appoutbox.EventRecord{
		ID:         "evt-1",
		Name:       name,
		Payload:    []byte(payload),
		Aggregate:  aggregate,
		OccurredAt: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestProcessOncePublishesCloudEvent(t *testing.T) {
	queue := memory.NewOutbox()
	producer := &fakeProducer{}
	worker := &Worker{Queue: queue, Producer: producer}
	ctx := context.Background()

	if err := queue.Add(ctx, record("reservation.confirmed", "res-1", `{"reservationId":"res-1"}`)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if len(producer.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(producer.messages))
	}

	msg := producer.messages[0]
	if msg.topic != "reservation.events.v1" {
		t.Errorf("topic = %q", msg.topic)
	}
	if msg.key != "res-1" {
		t.Errorf("key = %q", msg.key)
	}
	if ct := msg.headers["content-type"]; ct != "application/cloudevents+json" {
		t.Errorf("content-type = %q", ct)
	}

	var envelope map[string]any
	if err := json.Unmarshal(msg.payload, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if envelope["specversion"] != "1.0" {
		t.Errorf("specversion = %v", envelope["specversion"])
	}
	if envelope["type"] != "reservation.confirmed.v1" {
		t.Errorf("type = %v", envelope["type"])
	}
	if envelope["source"] != "app://minpaku" {
		t.Errorf("source = %v", envelope["source"])
	}
	data, ok := envelope["data"].(map[string]any)
	if !ok || data["reservationId"] != "res-1" {
		t.Errorf("data = %v", envelope["data"])
	}
}

func TestProcessOnceTopicPrefix(t *testing.T) {
	queue := memory.NewOutbox()
	producer := &fakeProducer{}
	worker := &Worker{Queue: queue, Producer: producer, TopicPrefix: "staging."}
	ctx := context.Background()

	if err := queue.Add(ctx, record("user.signed_up", "user-1", `{}`)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if topic := producer.messages[0].topic; topic != "staging.user.events.v1" {
		t.Errorf("topic = %q", topic)
	}
}

func TestProcessOnceRequeuesOnPublishFailure(t *testing.T) {
	queue := memory.NewOutbox()
	producer := &fakeProducer{failErr: errors.New("broker down")}
	worker := &Worker{Queue: queue, Producer: producer}
	ctx := context.Background()

	if err := queue.Add(ctx, record("reservation.confirmed", "res-1", `{}`)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if queue.Pending() != 1 {
		t.Errorf("pending = %d, want 1 after requeue", queue.Pending())
	}

	// The record drains once the broker recovers.
	producer.failErr = nil
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("retry processOnce() error = %v", err)
	}
	if queue.Pending() != 0 || len(producer.messages) != 1 {
		t.Errorf("pending = %d, published = %d", queue.Pending(), len(producer.messages))
	}
}

func TestProcessOnceDropsMalformedPayload(t *testing.T) {
	queue := memory.NewOutbox()
	producer := &fakeProducer{}
	worker := &Worker{Queue: queue, Producer: producer}
	ctx := context.Background()

	if err := queue.Add(ctx, record("reservation.confirmed", "res-1", "not json")); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := worker.processOnce(ctx); err != nil {
		t.Fatalf("processOnce() error = %v", err)
	}
	if queue.Pending() != 0 {
		t.Errorf("malformed record still pending: %d", queue.Pending())
	}
	if len(producer.messages) != 0 {
		t.Errorf("malformed record published")
	}
}

func TestProcessOnceEmptyQueue(t *testing.T) {
	worker := &Worker{Queue: memory.NewOutbox(), Producer: &fakeProducer{}}
	if err := worker.processOnce(context.Background()); err != nil {
		t.Errorf("processOnce() on empty queue = %v", err)
	}
}
