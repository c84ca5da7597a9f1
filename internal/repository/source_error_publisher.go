package repository

import (
	"context"
	"time"

	"MarketAtlas/internal/domain/models"
	"MarketAtlas/internal/domain/repository"
	pkgkafka "MarketAtlas/pkg/kafka"
)

// SourceErrorEvent is the payload of one failed-source event.
type SourceErrorEvent struct {
	Kind    string    `json:"kind"`
	Source  string    `json:"source"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// KafkaPublisher implements ReportPublisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	now      func() time.Time
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.ReportPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, now: time.Now}
}

// PublishSourceErrors emits one message per failed source, keyed by source id.
func (p *KafkaPublisher) PublishSourceErrors(ctx context.Context, kind string, errs []models.SourceError) error {
	if len(errs) == 0 {
		return nil
	}
	at := p.now().UTC()
	msgs := make([]pkgkafka.Message, len(errs))
	for i, e := range errs {
		msgs[i] = pkgkafka.Message{
			Key: []byte(e.Source),
			Value: SourceErrorEvent{
				Kind:    kind,
				Source:  e.Source,
				Message: e.Message,
				At:      at,
			},
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher discards events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishSourceErrors(context.Context, string, []models.SourceError) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
