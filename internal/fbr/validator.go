package fbr

import (
	"fmt"
	"regexp"
	"time"

	"github.com/fbr-invoice-engine/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

// Finding is one pre-submission rule violation. RelatedCodes lists the FBR
// catalog codes the authority has historically returned for the same defect;
// several codes can map to one rule.
type Finding struct {
	FieldPath    string   `json:"field_path"`
	Message      string   `json:"message"`
	RelatedCodes []string `json:"related_codes,omitempty"`
}

// Report is the result of one validation run
type Report struct {
	Valid    bool      `json:"valid"`
	Findings []Finding `json:"findings,omitempty"`
}

var (
	ntnPattern           = regexp.MustCompile(`^\d{7}$|^\d{9}$|^\d{13}$`)
	invoiceNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	nonDigitPattern      = regexp.MustCompile(`\D`)
)

// taxTolerance absorbs floating rounding between the recorded line tax and
// the recomputed rate% x quantity x unitPrice.
var taxTolerance = decimal.NewFromFloat(0.01)

// Validate runs the full rule battery against the invoice and its line items.
// It never short-circuits: every defect is reported in one pass so the user
// can fix the whole invoice before resubmitting. Pure and deterministic.
func Validate(inv *invoice.Invoice) Report {
	var findings []Finding

	findings = append(findings, checkBuyerIdentity(inv)...)
	findings = append(findings, checkInvoiceHeader(inv)...)
	for i := range inv.Items {
		findings = append(findings, checkLineItem(i, &inv.Items[i])...)
	}
	findings = append(findings, checkAggregateTaxFields(inv)...)

	return Report{
		Valid:    len(findings) == 0,
		Findings: findings,
	}
}

func checkBuyerIdentity(inv *invoice.Invoice) []Finding {
	var findings []Finding

	digits := nonDigitPattern.ReplaceAllString(inv.BuyerNTN, "")
	if digits == "" {
		findings = append(findings, Finding{
			FieldPath:    "buyerNTN",
			Message:      "Buyer registration number (NTN/CNIC) is required",
			RelatedCodes: []string{"0009"},
		})
	} else if !ntnPattern.MatchString(digits) {
		findings = append(findings, Finding{
			FieldPath:    "buyerNTN",
			Message:      "Buyer registration number must be 7, 9, or 13 digits",
			RelatedCodes: []string{"0002", "0052"},
		})
	}

	if inv.BuyerName == "" {
		findings = append(findings, Finding{
			FieldPath:    "buyerName",
			Message:      "Buyer business name is required",
			RelatedCodes: []string{"0010"},
		})
	}

	if inv.BuyerRegistrationType == "" {
		findings = append(findings, Finding{
			FieldPath:    "buyerRegistrationType",
			Message:      "Buyer registration type is required",
			RelatedCodes: []string{"0012"},
		})
	}

	return findings
}

func checkInvoiceHeader(inv *invoice.Invoice) []Finding {
	var findings []Finding

	if inv.InvoiceNumber == "" {
		findings = append(findings, Finding{
			FieldPath:    "invoiceNumber",
			Message:      "Invoice number is required",
			RelatedCodes: []string{"0041"},
		})
	} else if !invoiceNumberPattern.MatchString(inv.InvoiceNumber) {
		findings = append(findings, Finding{
			FieldPath:    "invoiceNumber",
			Message:      "Invoice number may only contain letters, digits and hyphens",
			RelatedCodes: []string{"0006"},
		})
	}

	if inv.InvoiceDate == "" {
		findings = append(findings, Finding{
			FieldPath:    "invoiceDate",
			Message:      "Invoice date is required",
			RelatedCodes: []string{"0042"},
		})
	} else if !parseableDate(inv.InvoiceDate) {
		findings = append(findings, Finding{
			FieldPath:    "invoiceDate",
			Message:      "Invoice date is not a recognizable date",
			RelatedCodes: []string{"0004", "0029"},
		})
	}

	if inv.InvoiceType == "" {
		findings = append(findings, Finding{
			FieldPath:    "invoiceType",
			Message:      "Invoice type is required",
			RelatedCodes: []string{"0011"},
		})
	}

	return findings
}

func checkLineItem(index int, item *invoice.LineItem) []Finding {
	var findings []Finding
	path := func(field string) string { return fmt.Sprintf("items[%d].%s", index, field) }

	if item.HSCode == "" {
		findings = append(findings, Finding{
			FieldPath:    path("hsCode"),
			Message:      "HS code is required for every line item",
			RelatedCodes: []string{"0019"},
		})
	}
	if item.Description == "" {
		// No catalog code covers a missing description; the finding stands alone.
		findings = append(findings, Finding{
			FieldPath: path("description"),
			Message:   "Product description is required for every line item",
		})
	}
	if item.Rate == "" {
		findings = append(findings, Finding{
			FieldPath:    path("rate"),
			Message:      "Tax rate is required for every line item",
			RelatedCodes: []string{"0046", "0020"},
		})
	}
	if item.Quantity == nil || !item.Quantity.IsPositive() {
		findings = append(findings, Finding{
			FieldPath:    path("quantity"),
			Message:      "Quantity must be greater than zero",
			RelatedCodes: []string{"0021"},
		})
	}
	if item.UnitOfMeasure == "" {
		findings = append(findings, Finding{
			FieldPath:    path("uom"),
			Message:      "Unit of measurement is required for every line item",
			RelatedCodes: []string{"0022"},
		})
	}
	if item.SerialNumber == "" {
		findings = append(findings, Finding{
			FieldPath:    path("serialNumber"),
			Message:      "Product serial number is required for every line item",
			RelatedCodes: []string{"0101"},
		})
	}

	// Recompute the expected line tax when all three inputs are present.
	if item.TaxRate != nil && item.UnitPrice != nil && item.Quantity != nil && item.TaxAmount != nil {
		expected := item.TaxRate.Div(decimal.NewFromInt(100)).
			Mul(*item.Quantity).
			Mul(*item.UnitPrice)
		diff := expected.Sub(*item.TaxAmount).Abs()
		if diff.GreaterThan(taxTolerance) {
			findings = append(findings, Finding{
				FieldPath: path("taxAmount"),
				Message: fmt.Sprintf("Recorded sales tax %s does not match computed %s (rate %s%% x qty %s x price %s)",
					item.TaxAmount.StringFixed(2), expected.StringFixed(2),
					item.TaxRate.String(), item.Quantity.String(), item.UnitPrice.String()),
				RelatedCodes: []string{"0107"},
			})
		}
	}

	return findings
}

func checkAggregateTaxFields(inv *invoice.Invoice) []Finding {
	var findings []Finding

	if inv.SalesTax == nil || !inv.SalesTax.IsPositive() {
		findings = append(findings, Finding{
			FieldPath:    "salesTax",
			Message:      "Sales tax amount must be present and greater than zero",
			RelatedCodes: []string{"0018"},
		})
	}

	// Withholding may be a legitimate zero, but it must be recorded.
	if inv.WithheldTax == nil {
		findings = append(findings, Finding{
			FieldPath:    "withheldTax",
			Message:      "Sales tax withheld at source is required (enter 0 when none applies)",
			RelatedCodes: []string{"0073"},
		})
	}

	if inv.FurtherTax == nil {
		findings = append(findings, Finding{
			FieldPath:    "furtherTax",
			Message:      "Further tax amount is required (enter 0 when none applies)",
			RelatedCodes: []string{"0077"},
		})
	}

	if inv.FixedNotifiedValue == nil {
		findings = append(findings, Finding{
			FieldPath:    "fixedNotifiedValue",
			Message:      "Fixed/notified value or retail price is required",
			RelatedCodes: []string{"0088"},
		})
	}

	if inv.BuyerProvince == "" {
		findings = append(findings, Finding{
			FieldPath:    "buyerProvince",
			Message:      "Buyer province is required",
			RelatedCodes: []string{"0007"},
		})
	}

	if inv.SROScheduleNo == "" {
		findings = append(findings, Finding{
			FieldPath:    "sroScheduleNo",
			Message:      "SRO schedule reference is required",
			RelatedCodes: []string{"0098"},
		})
	}

	return findings
}

func parseableDate(raw string) bool {
	for _, layout := range acceptedDateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}
