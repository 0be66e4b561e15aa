package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/fbr-invoice-engine/internal/fbr"
)

// RegistrationEngine runs one registration attempt end to end.
// Satisfied by fbr.Service.
type RegistrationEngine interface {
	Register(ctx context.Context, invoiceID uuid.UUID, caller fbr.Caller) *fbr.RegistrationResult
}

// RegistrationProcessingService implements ProcessingService by driving the
// registration engine for each consumed request.
type RegistrationProcessingService struct {
	engine RegistrationEngine
	logger *slog.Logger
}

// NewRegistrationProcessingService creates a new processing service
func NewRegistrationProcessingService(logger *slog.Logger, engine RegistrationEngine) ProcessingService {
	return &RegistrationProcessingService{
		engine: engine,
		logger: logger,
	}
}

// ProcessRegistration runs one registration attempt for a consumed request.
// Terminal outcomes, including persisted rejections, return nil so the
// message is committed. Transient transport failures and system errors
// return an error: they mutated no state, so redelivery retries them safely.
func (s *RegistrationProcessingService) ProcessRegistration(ctx context.Context, request *shared.RegistrationRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	caller := fbr.Caller{
		ActorID: request.ActorID,
		OrgID:   request.ActorOrgID,
		Admin:   request.ActorIsAdmin,
	}

	result := s.engine.Register(ctx, request.InvoiceID, caller)

	logger.Info("Registration attempt finished",
		"request_id", request.RequestID.String(),
		"invoice_id", request.InvoiceID.String(),
		"kind", string(result.Kind),
		"transient", result.Transient,
	)

	if result.Transient {
		return fmt.Errorf("transient submission failure for invoice %s: %s", request.InvoiceID, result.Message)
	}
	if result.Kind == fbr.ResultSystemError {
		return fmt.Errorf("system error while registering invoice %s: %s", request.InvoiceID, result.Message)
	}

	return nil
}
