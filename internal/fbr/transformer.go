package fbr

import (
	"time"

	"github.com/fbr-invoice-engine/internal/domain/invoice"
	"github.com/fbr-invoice-engine/internal/domain/organization"
	"github.com/shopspring/decimal"
)

const wireDateLayout = "2006-01-02"

// acceptedDateLayouts are the input formats the transformer tolerates. The
// invoicing subsystem stores dates as entered, so both date-only and full
// timestamps show up.
var acceptedDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"2006-01-02 15:04:05",
}

// Transform converts a locally stored invoice into the FBR wire format. It is
// a total function: unknown or missing source fields become empty strings or
// zeros, and it never fails. Validation happens before this step, not here.
func Transform(inv *invoice.Invoice, org *organization.Organization) WireInvoice {
	wire := WireInvoice{
		InvoiceType:  inv.InvoiceType,
		InvoiceDate:  formatWireDate(inv.InvoiceDate),
		InvoiceRefNo: inv.InvoiceRefNo,
		ScenarioID:   inv.ScenarioID,

		BuyerNTN:              inv.BuyerNTN,
		BuyerBusinessName:     inv.BuyerName,
		BuyerProvince:         inv.BuyerProvince,
		BuyerAddress:          inv.BuyerAddress,
		BuyerRegistrationType: inv.BuyerRegistrationType,

		TotalValueExclTax:  inv.Subtotal.InexactFloat64(),
		TotalSalesTax:      wireAmount(inv.SalesTax),
		TotalAmount:        inv.TotalAmount.InexactFloat64(),
		Currency:           inv.Currency,
		TotalWithheldTax:   wireAmount(inv.WithheldTax),
		TotalFurtherTax:    wireAmount(inv.FurtherTax),
		FixedNotifiedValue: wireAmount(inv.FixedNotifiedValue),

		Items: make([]WireItem, 0, len(inv.Items)),
	}

	if org != nil {
		wire.SellerNTN = org.NTN
		wire.SellerBusinessName = org.Name
		wire.SellerProvince = org.Province
		wire.SellerAddress = org.Address
		wire.SellerRegistrationType = org.RegistrationCategory
	}

	for i, item := range inv.Items {
		wire.Items = append(wire.Items, WireItem{
			ItemNo:             i + 1,
			HSCode:             item.HSCode,
			Description:        item.Description,
			Rate:               item.Rate,
			UnitOfMeasure:      item.UnitOfMeasure,
			SerialNumber:       item.SerialNumber,
			SaleType:           item.SaleType,
			Quantity:           wireAmount(item.Quantity),
			UnitPrice:          wireAmount(item.UnitPrice),
			ValueExclTax:       wireAmount(item.ValueExclTax),
			SalesTax:           wireAmount(item.TaxAmount),
			WithheldTax:        wireAmount(item.WithheldTax),
			FurtherTax:         wireAmount(item.FurtherTax),
			ExtraTax:           wireAmount(item.ExtraTax),
			FixedNotifiedValue: wireAmount(item.FixedNotifiedValue),
			SROScheduleNo:      item.SROScheduleNo,
			SROItemSerialNo:    item.SROItemSerialNo,
		})
	}

	return wire
}

// formatWireDate normalizes a stored date string to YYYY-MM-DD. Unparseable
// input yields an empty string rather than an error; the validator has
// already flagged it by the time submission happens.
func formatWireDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(wireDateLayout)
		}
	}
	return ""
}

func wireAmount(d *decimal.Decimal) float64 {
	if d == nil {
		return 0.0
	}
	return d.InexactFloat64()
}
