package catalog

// solutions maps frequent FBR error codes to remediation hints shown to users
// alongside the failure message. Subjects follow the seeded catalog wording;
// codes without a hint surface the catalog description only.
var solutions = map[string]string{
	"0001": "Register the seller NTN with FBR digital invoicing before submitting.",
	"0002": "Provide a 7, 9, or 13 digit buyer registration number (NTN/CNIC).",
	"0003": "Use one of the invoice document types the authority accepts.",
	"0004": "Use an invoice date in YYYY-MM-DD format.",
	"0005": "Set the buyer registration type to Registered or Unregistered.",
	"0007": "Provide the buyer province used for place-of-supply determination.",
	"0009": "Provide the buyer registration number (NTN/CNIC).",
	"0010": "Provide the buyer business name exactly as registered.",
	"0018": "Provide the sales tax amount for the invoice.",
	"0019": "Provide a valid HS code for every line item.",
	"0020": "Provide the applicable tax rate label for every line item.",
	"0021": "Provide a quantity greater than zero for every line item.",
	"0022": "Provide the unit of measurement (UOM) for every line item.",
	"0046": "Provide the applicable tax rate for every line item.",
	"0052": "Check the buyer registration number against the FBR registration database.",
	"0070": "Provide the reason for the debit or credit note.",
	"0073": "Provide the withheld-at-source sales tax amount; enter 0 when none applies.",
	"0077": "Provide the further tax amount; enter 0 when the buyer is registered.",
	"0088": "Provide the fixed/notified retail value for third-schedule goods.",
	"0090": "Use a scenario id that applies to the seller registration category.",
	"0095": "Provide the extra tax amount; enter 0 when none applies.",
	"0098": "Provide the SRO schedule number referenced by the rate.",
	"0101": "Provide unique, sequential serial numbers for line items.",
	"0102": "Provide the SRO item serial number that belongs to the given schedule.",
	"0104": "Provide the value of sales excluding sales tax for every line item.",
	"0107": "Provide the sales tax applicable on every line item; it must equal rate times value.",
}

// SolutionHint returns the remediation hint for a code, or empty when none is
// known.
func SolutionHint(code string) string {
	return solutions[code]
}
