package repository

import (
	"context"
	"fmt"

	"TruthSource/internal/domain/models"
	"TruthSource/internal/domain/repository"
	pkgkafka "TruthSource/pkg/kafka"
)

// KafkaEvents publishes analysis events keyed by domain so each domain's
// events stay ordered within a partition.
type KafkaEvents struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ repository.EventPublisher = (*KafkaEvents)(nil)

func NewKafkaEvents(producer *pkgkafka.Producer, topic string) *KafkaEvents {
	return &KafkaEvents{producer: producer, topic: topic}
}

func (p *KafkaEvents) PublishEvent(ctx context.Context, e *models.AnalysisEvent) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(e.Domain), e); err != nil {
		return fmt.Errorf("publish %s event: %w", e.Domain, err)
	}
	return nil
}

func (p *KafkaEvents) Close() error {
	return p.producer.Close()
}

// NopEvents drops events; used when Kafka is disabled.
type NopEvents struct{}

var _ repository.EventPublisher = NopEvents{}

func (NopEvents) PublishEvent(context.Context, *models.AnalysisEvent) error { return nil }

func (NopEvents) Close() error { return nil }
