package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines invoice persistence operations. The registration engine
// never creates or deletes invoices; it reads them and records outcomes.
type Repository interface {
	// GetByID loads the invoice together with its line items.
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// MarkRegistered sets status to registered, stores the confirmation id and
	// clears previous error fields. The update is guarded: an invoice that is
	// already registered is left untouched and ErrAlreadyRegistered is
	// returned, so two concurrent attempts cannot produce two confirmation ids.
	MarkRegistered(ctx context.Context, id uuid.UUID, fbrInvoiceNumber string) error

	// MarkFailed sets status to failed and records the best-effort error
	// code/message plus the raw response for forensic replay. A registered
	// invoice is never downgraded.
	MarkFailed(ctx context.Context, id uuid.UUID, errorCode, errorMessage, rawResponse string) error

	WithTx(tx pgx.Tx) Repository
}

// ErrInvoiceNotFound indicates missing invoice
type ErrInvoiceNotFound struct {
	InvoiceID uuid.UUID
}

func (e ErrInvoiceNotFound) Error() string {
	return "invoice not found: " + e.InvoiceID.String()
}

// Is implements the errors.Is interface for ErrInvoiceNotFound
func (e ErrInvoiceNotFound) Is(target error) bool {
	t, ok := target.(ErrInvoiceNotFound)
	if !ok {
		return false
	}
	if t.InvoiceID == uuid.Nil {
		return true
	}
	return e.InvoiceID == t.InvoiceID
}

// ErrAlreadyRegistered indicates the registered-guard refused a status update
type ErrAlreadyRegistered struct {
	InvoiceID uuid.UUID
}

func (e ErrAlreadyRegistered) Error() string {
	return "invoice already registered: " + e.InvoiceID.String()
}

// Is implements the errors.Is interface for ErrAlreadyRegistered
func (e ErrAlreadyRegistered) Is(target error) bool {
	t, ok := target.(ErrAlreadyRegistered)
	if !ok {
		return false
	}
	if t.InvoiceID == uuid.Nil {
		return true
	}
	return e.InvoiceID == t.InvoiceID
}
