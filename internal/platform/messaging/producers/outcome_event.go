package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/fbr-invoice-engine/internal/config"
)

// OutcomeEventProducer publishes registration outcome events drained from the
// transactional outbox. Writes are synchronous with full acks: the poller only
// marks an outbox row processed after the broker confirms the write.
type OutcomeEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// Creates a new outcome event producer and ensures topic exists
func NewOutcomeEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*OutcomeEventProducer, error) {
	if cfg.OutcomeTopic == "" {
		return nil, fmt.Errorf("kafka outcome topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for outcome producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.OutcomeTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure outcome topic %s exists: %w", cfg.OutcomeTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.OutcomeTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &OutcomeEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.OutcomeTopic,
	}, nil
}

func (p *OutcomeEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for outcome producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message via outcome producer",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via outcome producer: %w", p.topic, err)
	}

	p.logger.Debug("Published message via outcome producer",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *OutcomeEventProducer) Close() error {
	p.logger.Info("Closing outcome Kafka message producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
