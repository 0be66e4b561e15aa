package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages audit entry persistence. Insert-only by contract; the
// read operations exist for the reconciliation UI.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (int64, error)
}
