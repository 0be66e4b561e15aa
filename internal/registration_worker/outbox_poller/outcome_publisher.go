package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fbr-invoice-engine/internal/domain/outbox"
	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/fbr-invoice-engine/internal/platform/messaging/producers"
)

// OutcomePublisher publishes outbox messages to the outcome topic
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, message *outbox.Message) error
}

// OutcomePublisherImpl implements OutcomePublisher
type OutcomePublisherImpl struct {
	outboxRepo outbox.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewOutcomePublisher creates a new publisher
func NewOutcomePublisher(
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) OutcomePublisher {
	return &OutcomePublisherImpl{
		outboxRepo: outboxRepo,
		producer:   producer,
		logger:     logger,
	}
}

// PublishOutcome publishes one outbox message to Kafka and marks it processed
// only after the broker acknowledged the write.
func (p *OutcomePublisherImpl) PublishOutcome(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetOutcomeEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal outcome event from outbox payload",
			"outbox_id", message.ID, "invoice_id", message.InvoiceID, "error", err,
		)
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	// Add correlation ID to logger
	logger := p.logger
	if event.CorrelationID != "" {
		logger = p.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Attempting to publish outcome event", "outbox_id", message.ID, "invoice_id", message.InvoiceID)

	key := event.InvoiceID.String()
	if err := p.producer.Publish(ctx, key, event); err != nil {
		logger.Error("Failed to publish outcome event to Kafka",
			"outbox_id", message.ID, "invoice_id", message.InvoiceID, "error", err,
		)
		return fmt.Errorf("failed to publish outcome event for outbox %d: %w", message.ID, err)
	}

	// Mark outbox message as processed
	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "invoice_id", message.InvoiceID, "error", err,
		)
		return fmt.Errorf("outcome publish for %s OK, but failed to mark outbox %d as PROCESSED: %w", message.InvoiceID, message.ID, err)
	}

	logger.Info("Outbox message successfully published and marked as PROCESSED", "outbox_id", message.ID, "invoice_id", message.InvoiceID)
	return nil
}
