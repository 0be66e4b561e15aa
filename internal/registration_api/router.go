package registration_api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fbr-invoice-engine/internal/registration_api/handler"
	"github.com/fbr-invoice-engine/internal/registration_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	registrationHandler *handler.RegistrationHandler,
	invoiceHandler *handler.InvoiceHandler,
	catalogHandler *handler.CatalogHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Actor())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Invoice registration and read operations
		invoices := v1.Group("/invoices")
		{
			invoices.POST("/:id/register", registrationHandler.Register)
			invoices.GET("/:id", invoiceHandler.GetByID)
			invoices.GET("/:id/audit", invoiceHandler.GetAuditTrail)
		}

		// Bulk asynchronous registration
		registrations := v1.Group("/registrations")
		{
			registrations.POST("/bulk", registrationHandler.RegisterBulk)
		}

		// Error catalog reference data
		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.GET("/:code", catalogHandler.GetByCode)
			catalogGroup.POST("/refresh", catalogHandler.Refresh)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
