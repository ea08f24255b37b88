package repository

import (
	"context"
	"fmt"
	"time"

	"baratcx/internal/domain/models"
	drepo "baratcx/internal/domain/repository"
	"baratcx/pkg/config"
	"baratcx/pkg/kafka"
	"baratcx/pkg/logger"
)

// ActivityPublisher streams fresh activity batches to a Kafka topic so
// downstream consumers (audit, notifications) see the same feed the dashboard
// renders. Publishing is best effort: a broker outage never blocks polling.
type ActivityPublisher struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

// NewActivityPublisher creates a Kafka-backed publisher, or a no-op publisher
// when events are disabled in config.
func NewActivityPublisher(cfg *config.Config, log *logger.Logger) (drepo.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return nopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(
		kafka.WithBrokers(cfg.Events.Brokers),
		kafka.WithRequiredAcks(-1),
		kafka.WithAsync(true),
		kafka.WithWriteTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	return &ActivityPublisher{
		producer: producer,
		topic:    cfg.Events.Topic,
		log:      log,
	}, nil
}

// PublishActivity sends one message per event, keyed by event ID so replays
// of the same batch land on the same partition.
func (p *ActivityPublisher) PublishActivity(ctx context.Context, batch []models.ActivityEvent) error {
	for _, ev := range batch {
		if err := p.producer.Publish(ctx, p.topic, []byte(ev.ID), ev); err != nil {
			p.log.Warn("activity publish failed",
				logger.String("event", ev.ID),
				logger.Error(err))
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying producer.
func (p *ActivityPublisher) Close() error {
	return p.producer.Close()
}

type nopPublisher struct{}

func (nopPublisher) PublishActivity(context.Context, []models.ActivityEvent) error { return nil }
func (nopPublisher) Close() error                                                  { return nil }
