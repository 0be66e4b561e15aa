package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
	"github.com/fbr-invoice-engine/internal/domain/shared"
	"github.com/fbr-invoice-engine/internal/fbr"
	"github.com/fbr-invoice-engine/internal/registration_api/middleware"
	"github.com/fbr-invoice-engine/internal/registration_api/service"
)

// RegistrationHandler handles HTTP requests for invoice registration
type RegistrationHandler struct {
	registrationService service.RegistrationService
	logger              *slog.Logger
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(logger *slog.Logger, registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Register runs one synchronous registration attempt for an invoice
func (h *RegistrationHandler) Register(c *gin.Context) {
	idParam := c.Param("id")
	invoiceID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid invoice ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid invoice ID")
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		RespondUnauthorized(c, "Missing or invalid actor identity")
		return
	}

	result := h.registrationService.RegisterInvoice(c.Request.Context(), invoiceID, caller)
	RespondWithData(c, statusForResult(result), mapResultToResponse(result))
}

// RegisterBulk enqueues asynchronous registration for a batch of invoices
func (h *RegistrationHandler) RegisterBulk(c *gin.Context) {
	var req BulkRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		RespondUnauthorized(c, "Missing or invalid actor identity")
		return
	}

	correlationID := middleware.GetCorrelationID(c)

	requestIDs := make([]string, 0, len(req.InvoiceIDs))
	for _, idStr := range req.InvoiceIDs {
		invoiceID, err := uuid.Parse(idStr)
		if err != nil {
			RespondBadRequest(c, "Invalid invoice ID: "+idStr)
			return
		}

		request := &shared.RegistrationRequest{
			RequestID:     uuid.New(),
			InvoiceID:     invoiceID,
			ActorID:       caller.ActorID,
			ActorOrgID:    caller.OrgID,
			ActorIsAdmin:  caller.Admin,
			CorrelationID: correlationID,
			Timestamp:     time.Now(),
		}

		if err := h.registrationService.EnqueueRegistration(c.Request.Context(), request); err != nil {
			h.logger.Error("Failed to enqueue registration request",
				"invoice_id", invoiceID.String(), "error", err)
			RespondInternalError(c)
			return
		}
		requestIDs = append(requestIDs, request.RequestID.String())
	}

	RespondAccepted(c, BulkRegistrationResponse{
		RequestIDs: requestIDs,
		Enqueued:   len(requestIDs),
	})
}

// callerFromContext builds the engine caller from the actor middleware values
func callerFromContext(c *gin.Context) (fbr.Caller, bool) {
	actorID := middleware.GetActorID(c)
	if actorID == uuid.Nil {
		return fbr.Caller{}, false
	}
	return fbr.Caller{
		ActorID: actorID,
		OrgID:   middleware.GetActorOrgID(c),
		Admin:   middleware.IsActorAdmin(c),
	}, true
}

// statusForResult maps a registration result kind to an HTTP status code
func statusForResult(result *fbr.RegistrationResult) int {
	switch result.Kind {
	case fbr.ResultRegistered:
		return http.StatusOK
	case fbr.ResultAlreadyRegistered:
		return http.StatusConflict
	case fbr.ResultNotFound:
		return http.StatusNotFound
	case fbr.ResultForbidden:
		return http.StatusForbidden
	case fbr.ResultCredentialMissing:
		return http.StatusConflict
	case fbr.ResultValidationFailed:
		return http.StatusUnprocessableEntity
	case fbr.ResultSubmissionFailed:
		if result.Transient {
			return http.StatusBadGateway
		}
		// The attempt completed; the rejection outcome is in the body.
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// mapResultToResponse maps a registration result to its response DTO
func mapResultToResponse(result *fbr.RegistrationResult) RegistrationResultResponse {
	response := RegistrationResultResponse{
		Kind:           string(result.Kind),
		Message:        result.Message,
		ConfirmationID: result.ConfirmationID,
		ErrorCode:      result.ErrorCode,
		Solution:       result.Solution,
		Transient:      result.Transient,
	}

	for _, finding := range result.Findings {
		response.Findings = append(response.Findings, FindingResponse{
			FieldPath:    finding.FieldPath,
			Message:      finding.Message,
			RelatedCodes: finding.RelatedCodes,
		})
	}

	if result.MatchedEntry != nil {
		response.MatchedEntry = mapCatalogEntryToResponse(result.MatchedEntry)
	}

	return response
}

// mapCatalogEntryToResponse maps a catalog entry to its response DTO
func mapCatalogEntryToResponse(entry *catalog.Entry) *CatalogEntryResponse {
	return &CatalogEntryResponse{
		Code:        entry.Code,
		Message:     entry.Message,
		Description: entry.Description,
		Category:    string(entry.Category),
		Solution:    catalog.SolutionHint(entry.Code),
	}
}
