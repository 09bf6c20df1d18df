package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// Producer publishes outbox records synchronously. The configuration pins
// idempotent delivery: full-ISR acks and a single in-flight request, which
// sarama requires when Idempotent is on.
type Producer struct {
	inner sarama.SyncProducer
}

func NewProducer(brokers []string, base *sarama.Config) (*Producer, error) {
	cfg := base
	if cfg == nil {
		cfg = sarama.NewConfig()
		cfg.ClientID = "minpaku"
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	inner, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{inner: inner}, nil
}

func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
	}
	for k, v := range headers {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}
	_, _, err := p.inner.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.inner == nil {
		return nil
	}
	return p.inner.Close()
}
