package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/parkshare/backend/internal/domain/entities"
	"github.com/parkshare/backend/internal/domain/providers"
	"github.com/parkshare/backend/internal/infrastructure/observability"
)

// KafkaActivityPublisher writes activity events to a Kafka topic keyed by
// user id, so one user's events stay ordered within a partition
type KafkaActivityPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

var _ providers.ActivityPublisher = (*KafkaActivityPublisher)(nil)

// NewKafkaActivityPublisher creates a publisher on top of a sync producer
func NewKafkaActivityPublisher(producer sarama.SyncProducer, topic string) *KafkaActivityPublisher {
	return &KafkaActivityPublisher{producer: producer, topic: topic}
}

// Publish sends one event and waits for the broker acknowledgement
func (p *KafkaActivityPublisher) Publish(ctx context.Context, event *entities.ActivityEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal activity event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.UserID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish activity event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("event_id", event.ID).
		Str("type", string(event.Type)).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("activity event published")
	return nil
}

// Close flushes and closes the producer
func (p *KafkaActivityPublisher) Close() error {
	return p.producer.Close()
}
