package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/fbr-invoice-engine/internal/config"
)

// RegistrationReqMessageProducer publishes asynchronous registration requests
// from the API to the registration topic.
type RegistrationReqMessageProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new registration request producer and ensures topic exists
func NewRegistrationReqMessageProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*RegistrationReqMessageProducer, error) {
	if cfg.RegistrationTopic == "" {
		return nil, fmt.Errorf("kafka registration topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for registration producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.RegistrationTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure registration topic %s exists: %w", cfg.RegistrationTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.RegistrationTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.RegistrationTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.RegistrationTopic, "count", len(messages))
			}
		},
	}

	return &RegistrationReqMessageProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.RegistrationTopic,
	}, nil
}

func (p *RegistrationReqMessageProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for registration producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via registration producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via registration producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via registration producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *RegistrationReqMessageProducer) Close() error {
	p.logger.Info("Closing registration Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
