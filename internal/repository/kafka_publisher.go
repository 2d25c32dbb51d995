package repository

import (
	"context"

	"github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/models"
	domrepo "github.com/gcortinez/sweetspot-cowork-sub006/internal/domain/repository"
	pkgkafka "github.com/gcortinez/sweetspot-cowork-sub006/pkg/kafka"
)

// KafkaPublisher emits forecast lifecycle events, keyed by tenant so
// each tenant's events stay ordered.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) ForecastCreated(ctx context.Context, ev models.ForecastCreated) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.TenantID), ev)
}

func (p *KafkaPublisher) Close() error { return p.producer.Close() }

var _ domrepo.Publisher = (*KafkaPublisher)(nil)
