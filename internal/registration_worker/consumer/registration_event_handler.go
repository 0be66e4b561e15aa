package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/fbr-invoice-engine/internal/platform/messaging/producers"
	"github.com/fbr-invoice-engine/internal/registration_worker/service"
)

// RegistrationEventHandler handles incoming registration request messages from Kafka
type RegistrationEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewRegistrationEventHandler creates a new handler
func NewRegistrationEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *RegistrationEventHandler {
	return &RegistrationEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages
func (h *RegistrationEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.RegistrationRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal registration request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received registration request for processing",
		"request_id", request.RequestID.String(),
		"invoice_id", request.InvoiceID.String(),
		"actor_id", request.ActorID.String(),
	)

	if err := h.processingService.ProcessRegistration(ctx, &request); err != nil {
		logger.Error("Failed to process registration request",
			"request_id", request.RequestID.String(),
			"invoice_id", request.InvoiceID.String(),
			"error", err,
		)
		return fmt.Errorf("processing registration %s failed: %w", request.RequestID.String(), err)
	}

	logger.Info("Successfully processed registration request", "request_id", request.RequestID.String())
	return nil // Success, commit offset
}
