package repository

import (
	"context"

	"TrendPull/internal/domain/models"
	"TrendPull/pkg/kafka"
	"TrendPull/pkg/logger"
)

// KafkaEventSink publishes each new trend event to a Kafka topic so other
// systems can consume flips without polling the HTTP API. It implements
// domain repository.EventSink.
type KafkaEventSink struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

func NewKafkaEventSink(producer *kafka.Producer, topic string, log *logger.Logger) *KafkaEventSink {
	return &KafkaEventSink{producer: producer, topic: topic, log: log}
}

// Broadcast publishes the newest event from the snapshot. Publish failures
// are logged and dropped; the feed is best effort.
func (s *KafkaEventSink) Broadcast(ctx context.Context, events []models.TrendEvent) {
	if len(events) == 0 {
		return
	}
	latest := events[len(events)-1]
	key := []byte(latest.Trend)
	if err := s.producer.Publish(ctx, s.topic, key, latest); err != nil {
		s.log.Warn("kafka publish failed", logger.Error(err))
	}
}

// Close flushes and closes the underlying producer.
func (s *KafkaEventSink) Close() error {
	return s.producer.Close()
}
