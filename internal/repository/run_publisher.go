package repository

import (
	"context"

	"SentimentPulse/internal/domain/models"
	"SentimentPulse/internal/domain/repository"
	pkgkafka "SentimentPulse/pkg/kafka"
)

// KafkaRunPublisher implements RunPublisher for Kafka. Runs are keyed by ID.
type KafkaRunPublisher struct {
	producer *pkgkafka.Producer
}

// NewKafkaRunPublisher creates Kafka publisher.
func NewKafkaRunPublisher(producer *pkgkafka.Producer) repository.RunPublisher {
	return &KafkaRunPublisher{producer: producer}
}

func (p *KafkaRunPublisher) PublishRun(ctx context.Context, run *models.AnalysisRun) error {
	return p.producer.Publish(ctx, []byte(run.ID), run)
}

func (p *KafkaRunPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopRunPublisher drops every run. Used when events are disabled.
type NoopRunPublisher struct{}

func (NoopRunPublisher) PublishRun(context.Context, *models.AnalysisRun) error { return nil }

func (NoopRunPublisher) Close() error { return nil }
