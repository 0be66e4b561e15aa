package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fbr-invoice-engine/internal/registration_api/service"
)

// CatalogHandler handles HTTP requests for error catalog lookups
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(logger *slog.Logger, catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetByCode retrieves one catalog entry, returns 404 for unknown codes
func (h *CatalogHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		RespondBadRequest(c, "Missing catalog code")
		return
	}

	entry, err := h.catalogService.GetEntry(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Failed to get catalog entry", "code", code, "error", err)
		RespondInternalError(c)
		return
	}

	if entry == nil {
		RespondNotFound(c, "Catalog entry not found")
		return
	}

	RespondOK(c, mapCatalogEntryToResponse(entry))
}

// Refresh invalidates the in-memory catalog snapshot after administrative edits
func (h *CatalogHandler) Refresh(c *gin.Context) {
	h.catalogService.Refresh()
	RespondOK(c, gin.H{"refreshed": true})
}
