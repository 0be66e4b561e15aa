// Package fbr implements the FBR invoice registration and error reconciliation
// engine: the pre-submission validator, the wire-format transformer, the
// tolerant response parser, the catalog error matcher and the registration
// orchestrator that ties them together.
package fbr

// WireInvoice is the JSON payload shape required by the FBR digital invoicing
// submission endpoint. Every string field defaults to empty and every numeric
// field to zero; the endpoint rejects explicit nulls.
type WireInvoice struct {
	InvoiceType  string `json:"invoiceType"`
	InvoiceDate  string `json:"invoiceDate"` // YYYY-MM-DD, empty when unparseable
	InvoiceRefNo string `json:"invoiceRefNo"`
	ScenarioID   string `json:"scenarioId"`

	SellerNTN              string `json:"sellerNTNCNIC"`
	SellerBusinessName     string `json:"sellerBusinessName"`
	SellerProvince         string `json:"sellerProvince"`
	SellerAddress          string `json:"sellerAddress"`
	SellerRegistrationType string `json:"sellerRegistrationType"`

	BuyerNTN              string `json:"buyerNTNCNIC"`
	BuyerBusinessName     string `json:"buyerBusinessName"`
	BuyerProvince         string `json:"buyerProvince"`
	BuyerAddress          string `json:"buyerAddress"`
	BuyerRegistrationType string `json:"buyerRegistrationType"`

	TotalValueExclTax  float64 `json:"totalSalesValue"`
	TotalSalesTax      float64 `json:"totalSalesTax"`
	TotalAmount        float64 `json:"totalAmount"`
	Currency           string  `json:"currency"`
	TotalWithheldTax   float64 `json:"salesTaxWithheldAtSource"`
	TotalFurtherTax    float64 `json:"furtherTax"`
	FixedNotifiedValue float64 `json:"fixedNotifiedValueOrRetailPrice"`

	Items []WireItem `json:"items"`
}

// WireItem is one line of the wire payload, independently numbered from 1
type WireItem struct {
	ItemNo             int     `json:"itemSNo"`
	HSCode             string  `json:"hsCode"`
	Description        string  `json:"productDescription"`
	Rate               string  `json:"rate"`
	UnitOfMeasure      string  `json:"uoM"`
	SerialNumber       string  `json:"productSerialNumber"`
	SaleType           string  `json:"saleType"`
	Quantity           float64 `json:"quantity"`
	UnitPrice          float64 `json:"unitPrice"`
	ValueExclTax       float64 `json:"valueSalesExcludingST"`
	SalesTax           float64 `json:"salesTaxApplicable"`
	WithheldTax        float64 `json:"salesTaxWithheldAtSource"`
	FurtherTax         float64 `json:"furtherTax"`
	ExtraTax           float64 `json:"extraTax"`
	FixedNotifiedValue float64 `json:"fixedNotifiedValueOrRetailPrice"`
	SROScheduleNo      string  `json:"sroScheduleNo"`
	SROItemSerialNo    string  `json:"sroItemSerialNo"`
}
