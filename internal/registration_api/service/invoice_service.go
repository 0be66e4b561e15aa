package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fbr-invoice-engine/internal/domain/audit"
	"github.com/fbr-invoice-engine/internal/domain/invoice"
)

// InvoiceQueryServiceImpl implements the InvoiceQueryService interface
type InvoiceQueryServiceImpl struct {
	invoiceRepo invoice.Repository
	auditRepo   audit.Repository
	logger      *slog.Logger
}

// NewInvoiceQueryService creates a new invoice query service
func NewInvoiceQueryService(logger *slog.Logger, invoiceRepo invoice.Repository, auditRepo audit.Repository) InvoiceQueryService {
	return &InvoiceQueryServiceImpl{
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

// GetInvoiceByID retrieves an invoice by its ID. Returns nil if not found
func (s *InvoiceQueryServiceImpl) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, invoice.ErrInvoiceNotFound{}) {
			s.logger.Info("Invoice not found", "invoice_id", id.String())
			return nil, nil
		}
		s.logger.Error("Failed to get invoice", "invoice_id", id.String(), "error", err)
		return nil, err
	}
	return inv, nil
}

// GetAuditTrail retrieves paginated audit entries for an invoice.
// Returns entries, total count, and any error
func (s *InvoiceQueryServiceImpl) GetAuditTrail(ctx context.Context, invoiceID uuid.UUID, page, perPage int) ([]*audit.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.auditRepo.GetByInvoiceID(ctx, invoiceID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.auditRepo.CountByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
