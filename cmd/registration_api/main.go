package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fbr-invoice-engine/internal/config"
	"github.com/fbr-invoice-engine/internal/data/mongo"
	"github.com/fbr-invoice-engine/internal/data/postgres"
	"github.com/fbr-invoice-engine/internal/fbr"
	"github.com/fbr-invoice-engine/internal/logger"
	"github.com/fbr-invoice-engine/internal/platform/catalogcache"
	"github.com/fbr-invoice-engine/internal/platform/fbrapi"
	"github.com/fbr-invoice-engine/internal/platform/messaging/producers"
	"github.com/fbr-invoice-engine/internal/platform/persistence"
	"github.com/fbr-invoice-engine/internal/registration_api"
	"github.com/fbr-invoice-engine/internal/registration_api/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("registration_api")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for bulk registration requests
	kafkaProducer, err := producers.NewRegistrationReqMessageProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize registration Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepository(log, postgresDB)
	orgRepo := postgres.NewOrganizationRepository(log, postgresDB)
	catalogRepo := postgres.NewCatalogRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	auditRepo := mongo.NewAuditRepository(log, mongoDB.Database())

	// Initialize the registration engine with its FBR submission client
	catalogCache := catalogcache.New(log, catalogRepo)
	submitter := fbrapi.NewHTTPClient(log, &cfg.FBR)
	engine := fbr.NewService(postgresDB, invoiceRepo, orgRepo, catalogCache, outboxRepo, auditRepo, submitter, log)

	// Initialize services
	registrationService := service.NewRegistrationService(log, engine, kafkaProducer)
	invoiceService := service.NewInvoiceQueryService(log, invoiceRepo, auditRepo)
	catalogService := service.NewCatalogService(log, catalogRepo, catalogCache)

	// Initialize REST server
	server := registration_api.NewServer(log, cfg, registrationService, invoiceService, catalogService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Shutdown HTTP server
	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
