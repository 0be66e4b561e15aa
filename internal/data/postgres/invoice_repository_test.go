package postgres

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbr-invoice-engine/internal/domain/invoice"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decPtr(v string) *decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return &d
}

var invoiceColumns = []string{
	"id", "org_id", "invoice_number", "invoice_ref_no", "invoice_type", "invoice_date", "scenario_id",
	"buyer_ntn", "buyer_name", "buyer_address", "buyer_province", "buyer_registration_type",
	"subtotal", "total_amount", "currency", "sales_tax", "withheld_tax", "further_tax",
	"fixed_notified_value", "sro_schedule_no",
	"status", "fbr_invoice_number", "last_error_code", "last_error_message", "last_raw_response",
	"created_at", "updated_at",
}

var itemColumns = []string{
	"id", "invoice_id", "hs_code", "description", "rate", "unit_of_measure", "serial_number", "sale_type",
	"quantity", "unit_price", "tax_rate", "tax_amount", "value_excl_tax",
	"withheld_tax", "further_tax", "extra_tax", "fixed_notified_value",
	"sro_schedule_no", "sro_item_serial_no",
}

func TestInvoiceRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &InvoiceRepository{querier: mock, logger: logger}

	invoiceID := uuid.New()
	orgID := uuid.New()
	itemID := uuid.New()
	now := time.Now()

	invoiceQuery := `SELECT (.+) FROM invoices WHERE id = \$1`
	itemsQuery := `SELECT (.+) FROM invoice_items WHERE invoice_id = \$1 ORDER BY serial_number, id`

	t.Run("success with items", func(t *testing.T) {
		mock.ExpectQuery(invoiceQuery).
			WithArgs(invoiceID).
			WillReturnRows(pgxmock.NewRows(invoiceColumns).AddRow(
				invoiceID, orgID, "INV-001", "", "Sale Invoice", "2025-08-15", "",
				"1234567", "Acme Traders", "", "Punjab", "Registered",
				decimal.NewFromInt(200), decimal.NewFromInt(236), "PKR", decPtr("36"), decPtr("0"), decPtr("0"),
				decPtr("0"), "SRO-1125",
				invoice.StatusDraft, "", "", "", "",
				now, now,
			))
		mock.ExpectQuery(itemsQuery).
			WithArgs(invoiceID).
			WillReturnRows(pgxmock.NewRows(itemColumns).AddRow(
				itemID, invoiceID, "8471.3010", "Laptop computer", "18%", "Numbers, pieces, units", "SN-001", "",
				decPtr("2"), decPtr("100"), decPtr("18"), decPtr("36"), decPtr("200"),
				decPtr("0"), decPtr("0"), decPtr("0"), decPtr("0"),
				"", "",
			))

		inv, err := repo.GetByID(ctx, invoiceID)

		require.NoError(t, err)
		assert.Equal(t, invoiceID, inv.ID)
		assert.Equal(t, orgID, inv.OrgID)
		assert.Equal(t, "INV-001", inv.InvoiceNumber)
		assert.Equal(t, invoice.StatusDraft, inv.Status)
		require.Len(t, inv.Items, 1)
		assert.Equal(t, "8471.3010", inv.Items[0].HSCode)
		assert.True(t, inv.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(invoiceQuery).
			WithArgs(invoiceID).
			WillReturnError(pgx.ErrNoRows)

		inv, err := repo.GetByID(ctx, invoiceID)

		assert.Nil(t, inv)
		assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound{InvoiceID: invoiceID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery(invoiceQuery).
			WithArgs(invoiceID).
			WillReturnError(errors.New("db error"))

		inv, err := repo.GetByID(ctx, invoiceID)

		assert.Nil(t, inv)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, invoice.ErrInvoiceNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInvoiceRepository_MarkRegistered(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &InvoiceRepository{querier: mock, logger: logger}

	invoiceID := uuid.New()
	query := `UPDATE invoices SET status = 'registered', (.+) WHERE id = \$1 AND status <> 'registered'`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(invoiceID, "IRN-2025-42").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkRegistered(ctx, invoiceID, "IRN-2025-42")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard refuses an already registered invoice", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(invoiceID, "IRN-SECOND").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkRegistered(ctx, invoiceID, "IRN-SECOND")

		assert.ErrorIs(t, err, invoice.ErrAlreadyRegistered{InvoiceID: invoiceID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(invoiceID, "IRN-2025-42").
			WillReturnError(errors.New("db error"))

		err := repo.MarkRegistered(ctx, invoiceID, "IRN-2025-42")

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInvoiceRepository_MarkFailed(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &InvoiceRepository{querier: mock, logger: logger}

	invoiceID := uuid.New()
	query := `UPDATE invoices SET status = 'failed', (.+) WHERE id = \$1 AND status <> 'registered'`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(invoiceID, "0019", "Provide HS Code", `{"errorCode": "0019"}`).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkFailed(ctx, invoiceID, "0019", "Provide HS Code", `{"errorCode": "0019"}`)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("registered invoice is never downgraded", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(invoiceID, "0019", "Provide HS Code", "raw").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkFailed(ctx, invoiceID, "0019", "Provide HS Code", "raw")

		assert.ErrorIs(t, err, invoice.ErrAlreadyRegistered{InvoiceID: invoiceID})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
