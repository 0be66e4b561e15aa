// Package postgres provides PostgreSQL implementations of the domain
// repositories. It handles all database operations while maintaining
// transaction safety and proper error handling for the registration engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fbr-invoice-engine/internal/domain/invoice"
	"github.com/fbr-invoice-engine/internal/platform/persistence"
)

// InvoiceRepository implements the invoice.Repository interface for PostgreSQL
type InvoiceRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewInvoiceRepository creates a new PostgreSQL invoice repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewInvoiceRepository(logger *slog.Logger, db *persistence.PostgresDB) invoice.Repository {
	return &InvoiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic
// operations across multiple repository calls.
func (r *InvoiceRepository) WithTx(tx pgx.Tx) invoice.Repository {
	return &InvoiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByID retrieves an invoice together with its line items
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `
		SELECT id, org_id, invoice_number, invoice_ref_no, invoice_type, invoice_date, scenario_id,
		       buyer_ntn, buyer_name, buyer_address, buyer_province, buyer_registration_type,
		       subtotal, total_amount, currency, sales_tax, withheld_tax, further_tax,
		       fixed_notified_value, sro_schedule_no,
		       status, fbr_invoice_number, last_error_code, last_error_message, last_raw_response,
		       created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	var inv invoice.Invoice
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&inv.ID,
		&inv.OrgID,
		&inv.InvoiceNumber,
		&inv.InvoiceRefNo,
		&inv.InvoiceType,
		&inv.InvoiceDate,
		&inv.ScenarioID,
		&inv.BuyerNTN,
		&inv.BuyerName,
		&inv.BuyerAddress,
		&inv.BuyerProvince,
		&inv.BuyerRegistrationType,
		&inv.Subtotal,
		&inv.TotalAmount,
		&inv.Currency,
		&inv.SalesTax,
		&inv.WithheldTax,
		&inv.FurtherTax,
		&inv.FixedNotifiedValue,
		&inv.SROScheduleNo,
		&inv.Status,
		&inv.FBRInvoiceNumber,
		&inv.LastErrorCode,
		&inv.LastErrorMessage,
		&inv.LastRawResponse,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound{InvoiceID: id}
		}
		r.logger.Error("Failed to get invoice", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return &inv, nil
}

func (r *InvoiceRepository) getItems(ctx context.Context, invoiceID uuid.UUID) ([]invoice.LineItem, error) {
	query := `
		SELECT id, invoice_id, hs_code, description, rate, unit_of_measure, serial_number, sale_type,
		       quantity, unit_price, tax_rate, tax_amount, value_excl_tax,
		       withheld_tax, further_tax, extra_tax, fixed_notified_value,
		       sro_schedule_no, sro_item_serial_no
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY serial_number, id
	`

	rows, err := r.querier.Query(ctx, query, invoiceID)
	if err != nil {
		r.logger.Error("Failed to get invoice items", "invoiceID", invoiceID.String(), "error", err)
		return nil, fmt.Errorf("failed to get invoice items: %w", err)
	}
	defer rows.Close()

	var items []invoice.LineItem
	for rows.Next() {
		var item invoice.LineItem
		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.HSCode,
			&item.Description,
			&item.Rate,
			&item.UnitOfMeasure,
			&item.SerialNumber,
			&item.SaleType,
			&item.Quantity,
			&item.UnitPrice,
			&item.TaxRate,
			&item.TaxAmount,
			&item.ValueExclTax,
			&item.WithheldTax,
			&item.FurtherTax,
			&item.ExtraTax,
			&item.FixedNotifiedValue,
			&item.SROScheduleNo,
			&item.SROItemSerialNo,
		)
		if err != nil {
			r.logger.Error("Failed to scan invoice item", "invoiceID", invoiceID.String(), "error", err)
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoice items: %w", err)
	}

	return items, nil
}

// MarkRegistered transitions the invoice to registered and stores the
// confirmation id. The status guard in the WHERE clause makes the update a
// check-and-set: a concurrent attempt that already registered the invoice
// leaves zero rows affected and we report ErrAlreadyRegistered instead of
// overwriting the confirmation id.
func (r *InvoiceRepository) MarkRegistered(ctx context.Context, id uuid.UUID, fbrInvoiceNumber string) error {
	query := `
		UPDATE invoices
		SET status = 'registered', fbr_invoice_number = $2,
		    last_error_code = '', last_error_message = '', last_raw_response = '',
		    updated_at = NOW()
		WHERE id = $1 AND status <> 'registered'
	`

	result, err := r.querier.Exec(ctx, query, id, fbrInvoiceNumber)
	if err != nil {
		r.logger.Error("Failed to mark invoice registered", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark invoice registered: %w", err)
	}

	// Zero rows could also mean the row was deleted out from under us, but
	// callers always load the invoice earlier in the same flow, so the guard
	// refusing is the only realistic cause.
	if result.RowsAffected() == 0 {
		return invoice.ErrAlreadyRegistered{InvoiceID: id}
	}

	return nil
}

// MarkFailed transitions the invoice to failed and records the diagnostic
// fields. The same status guard applies so a registered invoice is never
// downgraded by a late or duplicate failure.
func (r *InvoiceRepository) MarkFailed(ctx context.Context, id uuid.UUID, errorCode, errorMessage, rawResponse string) error {
	query := `
		UPDATE invoices
		SET status = 'failed', last_error_code = $2, last_error_message = $3,
		    last_raw_response = $4, updated_at = NOW()
		WHERE id = $1 AND status <> 'registered'
	`

	result, err := r.querier.Exec(ctx, query, id, errorCode, errorMessage, rawResponse)
	if err != nil {
		r.logger.Error("Failed to mark invoice failed", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark invoice failed: %w", err)
	}

	// Same assumption as MarkRegistered: the invoice was loaded earlier in
	// the flow, so zero rows means the guard refused.
	if result.RowsAffected() == 0 {
		return invoice.ErrAlreadyRegistered{InvoiceID: id}
	}

	return nil
}
