// Package invoice defines the invoice aggregate the registration engine reads
// and updates. Invoice creation and item editing belong to the invoicing
// subsystem; this engine only transitions status and records registration
// outcomes.
package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status defines invoice registration states
type Status string

const (
	StatusDraft      Status = "draft"
	StatusRegistered Status = "registered"
	StatusFailed     Status = "failed"
)

// Invoice represents a locally stored sales invoice awaiting FBR registration.
// Monetary fields that may be legitimately absent (as opposed to zero) are
// pointers so the validator can tell the two apart.
type Invoice struct {
	ID    uuid.UUID `json:"id"`
	OrgID uuid.UUID `json:"org_id"`

	InvoiceNumber string `json:"invoice_number"`
	InvoiceRefNo  string `json:"invoice_ref_no,omitempty"`
	InvoiceType   string `json:"invoice_type"`
	InvoiceDate   string `json:"invoice_date"` // Stored as entered; formatted/validated on use
	ScenarioID    string `json:"scenario_id,omitempty"`

	BuyerNTN              string `json:"buyer_ntn"`
	BuyerName             string `json:"buyer_name"`
	BuyerAddress          string `json:"buyer_address,omitempty"`
	BuyerProvince         string `json:"buyer_province"`
	BuyerRegistrationType string `json:"buyer_registration_type"`

	Subtotal           decimal.Decimal  `json:"subtotal"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	Currency           string           `json:"currency"`
	SalesTax           *decimal.Decimal `json:"sales_tax,omitempty"`
	WithheldTax        *decimal.Decimal `json:"withheld_tax,omitempty"` // At-source withholding; zero is valid, absent is not
	FurtherTax         *decimal.Decimal `json:"further_tax,omitempty"`
	FixedNotifiedValue *decimal.Decimal `json:"fixed_notified_value,omitempty"`
	SROScheduleNo      string           `json:"sro_schedule_no,omitempty"`

	Status           Status `json:"status"`
	FBRInvoiceNumber string `json:"fbr_invoice_number,omitempty"` // Confirmation id (IRN); never reassigned once set
	LastErrorCode    string `json:"last_error_code,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
	LastRawResponse  string `json:"last_raw_response,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []LineItem `json:"items,omitempty"`
}

// LineItem represents one invoice line. Read-only to the registration engine;
// the transformer derives wire-format fields from it.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`

	HSCode        string `json:"hs_code"`
	Description   string `json:"description"`
	Rate          string `json:"rate"` // Tax rate label as the authority expects it, e.g. "18%"
	UnitOfMeasure string `json:"unit_of_measure"`
	SerialNumber  string `json:"serial_number"`
	SaleType      string `json:"sale_type,omitempty"`

	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	TaxRate            *decimal.Decimal `json:"tax_rate,omitempty"` // Percentage
	TaxAmount          *decimal.Decimal `json:"tax_amount,omitempty"`
	ValueExclTax       *decimal.Decimal `json:"value_excl_tax,omitempty"`
	WithheldTax        *decimal.Decimal `json:"withheld_tax,omitempty"`
	FurtherTax         *decimal.Decimal `json:"further_tax,omitempty"`
	ExtraTax           *decimal.Decimal `json:"extra_tax,omitempty"`
	FixedNotifiedValue *decimal.Decimal `json:"fixed_notified_value,omitempty"`
	SROScheduleNo      string           `json:"sro_schedule_no,omitempty"`
	SROItemSerialNo    string           `json:"sro_item_serial_no,omitempty"`
}

// IsRegistered reports whether the invoice already holds a confirmed
// registration. Registered invoices refuse re-registration.
func (i *Invoice) IsRegistered() bool {
	return i.Status == StatusRegistered
}
