// Package catalog holds the reference data for FBR validation error codes:
// roughly 180 known codes, each with the authority's canonical message, a
// short explanation and a category. The catalog is administrative data, seeded
// at deployment and never mutated by the registration engine.
package catalog

// Category groups catalog entries by the return type they apply to
type Category string

const (
	CategorySales    Category = "sales"
	CategoryPurchase Category = "purchase"
)

// Entry maps one known FBR error code to human-readable reference data
type Entry struct {
	Code        string   `json:"code"` // Zero-padded numeric string, e.g. "0019"
	Message     string   `json:"message"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Active      bool     `json:"active"`
}
