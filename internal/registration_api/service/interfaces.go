package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/fbr-invoice-engine/internal/domain/audit"
	"github.com/fbr-invoice-engine/internal/domain/catalog"
	"github.com/fbr-invoice-engine/internal/domain/invoice"
	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/fbr-invoice-engine/internal/fbr"
)

// RegistrationService defines the interface for registration operations
type RegistrationService interface {
	// RegisterInvoice runs one synchronous registration attempt and returns
	// its terminal result. Never returns an error; failures are result kinds.
	RegisterInvoice(ctx context.Context, invoiceID uuid.UUID, caller fbr.Caller) *fbr.RegistrationResult

	// EnqueueRegistration publishes an asynchronous registration request for
	// the worker to process
	EnqueueRegistration(ctx context.Context, request *shared.RegistrationRequest) error
}

// InvoiceQueryService defines the read surface over invoices and their audit trail
type InvoiceQueryService interface {
	// GetInvoiceByID retrieves an invoice with its items.
	// Returns nil if the invoice is not found
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)

	// GetAuditTrail retrieves paginated audit entries for an invoice,
	// newest first. Returns entries, total count, and any error
	GetAuditTrail(ctx context.Context, invoiceID uuid.UUID, page, perPage int) ([]*audit.Entry, int64, error)
}

// CatalogService defines the read surface over the error catalog
type CatalogService interface {
	// GetEntry retrieves one catalog entry by code.
	// Returns nil if the code is unknown
	GetEntry(ctx context.Context, code string) (*catalog.Entry, error)

	// Refresh drops the in-memory catalog snapshot so the next lookup reloads
	// from the database
	Refresh()
}
