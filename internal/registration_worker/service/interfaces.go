package service

import (
	"context"

	"github.com/fbr-invoice-engine/internal/domain/shared"
)

// ProcessingService defines the interface for processing asynchronous
// registration requests.
type ProcessingService interface {
	ProcessRegistration(ctx context.Context, request *shared.RegistrationRequest) error
}
