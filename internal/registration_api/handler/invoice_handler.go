package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fbr-invoice-engine/internal/domain/audit"
	"github.com/fbr-invoice-engine/internal/domain/invoice"
	"github.com/fbr-invoice-engine/internal/registration_api/service"
)

// InvoiceHandler handles HTTP requests for invoice read operations
type InvoiceHandler struct {
	invoiceService service.InvoiceQueryService
	logger         *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(logger *slog.Logger, invoiceService service.InvoiceQueryService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// GetByID retrieves an invoice with its registration state, returns 404 if not found
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid invoice ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	inv, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get invoice", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if inv == nil {
		RespondNotFound(c, "Invoice not found")
		return
	}

	RespondOK(c, mapInvoiceToResponse(inv))
}

// GetAuditTrail retrieves the paginated audit trail for an invoice
func (h *InvoiceHandler) GetAuditTrail(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid invoice ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	entries, total, err := h.invoiceService.GetAuditTrail(
		c.Request.Context(),
		id,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get audit trail", "invoice_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	var records []AuditEntryResponse
	for _, entry := range entries {
		records = append(records, mapAuditEntryToResponse(entry))
	}

	RespondWithPaginatedData(c, http.StatusOK, records, pagination.Page, pagination.PerPage, int(total))
}

// mapInvoiceToResponse maps an invoice to its response DTO
func mapInvoiceToResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:               inv.ID.String(),
		OrgID:            inv.OrgID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		InvoiceType:      inv.InvoiceType,
		InvoiceDate:      inv.InvoiceDate,
		BuyerNTN:         inv.BuyerNTN,
		BuyerName:        inv.BuyerName,
		BuyerProvince:    inv.BuyerProvince,
		Subtotal:         inv.Subtotal.String(),
		TotalAmount:      inv.TotalAmount.String(),
		Currency:         inv.Currency,
		Status:           string(inv.Status),
		FBRInvoiceNumber: inv.FBRInvoiceNumber,
		LastErrorCode:    inv.LastErrorCode,
		LastErrorMessage: inv.LastErrorMessage,
		ItemCount:        len(inv.Items),
		CreatedAt:        inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        inv.UpdatedAt.Format(time.RFC3339),
	}
}

// mapAuditEntryToResponse maps an audit entry to its response DTO
func mapAuditEntryToResponse(entry *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID.String(),
		ActorID:   entry.ActorID.String(),
		InvoiceID: entry.InvoiceID.String(),
		Code:      entry.Code,
		Message:   entry.Message,
		Context:   entry.Context,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
}
