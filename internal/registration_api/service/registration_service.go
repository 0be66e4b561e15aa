package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/fbr-invoice-engine/internal/fbr"
	"github.com/fbr-invoice-engine/internal/platform/messaging/producers"
)

// RegistrationEngine runs one registration attempt end to end.
// Satisfied by fbr.Service.
type RegistrationEngine interface {
	Register(ctx context.Context, invoiceID uuid.UUID, caller fbr.Caller) *fbr.RegistrationResult
}

// RegistrationServiceImpl implements the RegistrationService interface
type RegistrationServiceImpl struct {
	engine   RegistrationEngine
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(logger *slog.Logger, engine RegistrationEngine, producer producers.MessagePublisher) RegistrationService {
	return &RegistrationServiceImpl{
		engine:   engine,
		producer: producer,
		logger:   logger,
	}
}

// RegisterInvoice runs one synchronous registration attempt
func (s *RegistrationServiceImpl) RegisterInvoice(ctx context.Context, invoiceID uuid.UUID, caller fbr.Caller) *fbr.RegistrationResult {
	return s.engine.Register(ctx, invoiceID, caller)
}

// EnqueueRegistration publishes an asynchronous registration request
func (s *RegistrationServiceImpl) EnqueueRegistration(ctx context.Context, request *shared.RegistrationRequest) error {
	key := request.InvoiceID.String()
	if err := s.producer.Publish(ctx, key, request); err != nil {
		s.logger.Error("Failed to publish registration request",
			"request_id", request.RequestID,
			"invoice_id", request.InvoiceID,
			"error", err,
		)
		return err
	}

	s.logger.Info("Registration request published",
		"request_id", request.RequestID,
		"invoice_id", request.InvoiceID,
	)
	return nil
}
