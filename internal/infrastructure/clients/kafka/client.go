package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/parkshare/backend/internal/infrastructure/observability"
	"github.com/parkshare/backend/pkg/config"
	"github.com/parkshare/backend/pkg/retry"
)

// NewProducerConfig returns the sarama settings used for the activity stream.
// Every send waits for all in-sync replicas.
func NewProducerConfig(cfg *config.KafkaConfig) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true
	sc.Producer.Retry.Max = 5
	sc.Producer.Retry.Backoff = 200 * time.Millisecond
	sc.Producer.Idempotent = true
	sc.Producer.Partitioner = sarama.NewHashPartitioner
	sc.Net.MaxOpenRequests = 1
	sc.Net.DialTimeout = 5 * time.Second
	return sc
}

// NewSyncProducer connects to the brokers with exponential backoff retry
func NewSyncProducer(ctx context.Context, cfg *config.KafkaConfig) (sarama.SyncProducer, error) {
	sc := NewProducerConfig(cfg)
	logger := observability.LoggerFromContext(ctx)

	var producer sarama.SyncProducer
	err := retry.DoWithLog(ctx, retry.DefaultConfig(), "kafka", logger, func() error {
		p, err := sarama.NewSyncProducer(cfg.Brokers, sc)
		if err != nil {
			return err
		}
		producer = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Kafka after retries: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("connected to Kafka")
	return producer, nil
}
