package handler

// BulkRegistrationRequest asks for asynchronous registration of many invoices
type BulkRegistrationRequest struct {
	InvoiceIDs []string `json:"invoice_ids" binding:"required,min=1,max=500,dive,uuid"`
}

// BulkRegistrationResponse acknowledges an accepted bulk request
type BulkRegistrationResponse struct {
	RequestIDs []string `json:"request_ids"`
	Enqueued   int      `json:"enqueued"`
}

// FindingResponse represents one local validation finding in API responses
type FindingResponse struct {
	FieldPath    string   `json:"field_path"`
	Message      string   `json:"message"`
	RelatedCodes []string `json:"related_codes,omitempty"`
}

// RegistrationResultResponse represents the outcome of one registration attempt
type RegistrationResultResponse struct {
	Kind           string                `json:"kind"`
	Message        string                `json:"message"`
	ConfirmationID string                `json:"confirmation_id,omitempty"`
	Findings       []FindingResponse     `json:"findings,omitempty"`
	ErrorCode      string                `json:"error_code,omitempty"`
	MatchedEntry   *CatalogEntryResponse `json:"matched_entry,omitempty"`
	Solution       string                `json:"solution,omitempty"`
	Transient      bool                  `json:"transient,omitempty"`
}

// CatalogEntryResponse represents an error catalog entry in API responses
type CatalogEntryResponse struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Solution    string `json:"solution,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID               string `json:"id"`
	OrgID            string `json:"org_id"`
	InvoiceNumber    string `json:"invoice_number"`
	InvoiceType      string `json:"invoice_type"`
	InvoiceDate      string `json:"invoice_date"`
	BuyerNTN         string `json:"buyer_ntn"`
	BuyerName        string `json:"buyer_name"`
	BuyerProvince    string `json:"buyer_province"`
	Subtotal         string `json:"subtotal"`
	TotalAmount      string `json:"total_amount"`
	Currency         string `json:"currency"`
	Status           string `json:"status"`
	FBRInvoiceNumber string `json:"fbr_invoice_number,omitempty"`
	LastErrorCode    string `json:"last_error_code,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
	ItemCount        int    `json:"item_count"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// AuditEntryResponse represents one audit trail record in API responses
type AuditEntryResponse struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id"`
	InvoiceID string         `json:"invoice_id"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
