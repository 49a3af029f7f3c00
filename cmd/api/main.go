package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tubetrade/rfq-api/docs"
	"github.com/tubetrade/rfq-api/internal/archive"
	"github.com/tubetrade/rfq-api/internal/auth"
	"github.com/tubetrade/rfq-api/internal/config"
	"github.com/tubetrade/rfq-api/internal/database"
	"github.com/tubetrade/rfq-api/internal/extraction"
	"github.com/tubetrade/rfq-api/internal/http/handler"
	"github.com/tubetrade/rfq-api/internal/http/middleware"
	"github.com/tubetrade/rfq-api/internal/http/router"
	"github.com/tubetrade/rfq-api/internal/jobs"
	"github.com/tubetrade/rfq-api/internal/logger"
	"github.com/tubetrade/rfq-api/internal/service"
	"github.com/tubetrade/rfq-api/internal/storage"
	"github.com/tubetrade/rfq-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title TubeTrade RFQ API
// @version 1.0
// @description Reconciliation API that turns free-form procurement requests into normalized, structured RFQs and accepts supplier quotes against them.

// @contact.name API Support
// @contact.email support@tubetrade.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "rfq-api-staging.tubetrade.io"
	case "production":
		docs.SwaggerInfo.Host = "api.tubetrade.io"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Session stores. The in-memory store is the source of truth for RFQ
	// state; everything else hangs off it.
	rfqStore := store.NewMemoryRFQStore()
	quoteStore := store.NewMemoryQuoteStore()

	// Extraction client (also serves clarification summaries)
	extractionClient, err := extraction.NewClient(&cfg.Extraction, log)
	if err != nil {
		return fmt.Errorf("failed to initialize extraction client: %w", err)
	}

	// Attachment archival is optional
	var archiver service.AttachmentArchiver
	if cfg.Storage.RetainAttachments {
		fileStorage, err := storage.NewStorage(&cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		archiver = storage.NewArchiver(fileStorage, log)
		log.Info("Attachment archival enabled", zap.String("mode", cfg.Storage.Mode))
	}

	// Initialize services
	rfqService := service.NewRFQService(rfqStore, extractionClient, extractionClient, archiver, log)
	quoteService := service.NewQuoteService(quoteStore, log)

	// Optional write-behind archive of session state
	var db *gorm.DB
	var scheduler *jobs.Scheduler
	if cfg.Archive.Enabled {
		db, err = database.NewDatabase(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to archive database: %w", err)
		}

		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterArchiveJob(
			scheduler,
			&cfg.Archive,
			archive.NewRepository(db),
			rfqStore,
			quoteStore,
			log,
		); err != nil {
			return fmt.Errorf("failed to register archive job: %w", err)
		}
		scheduler.Start()
		log.Info("Archive snapshot job started",
			zap.String("cron_expr", cfg.Archive.SnapshotCron),
		)
	} else {
		log.Info("Session archive disabled, state is in-memory only")
	}

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	rfqHandler := handler.NewRFQHandler(rfqService, cfg.Storage.MaxUploadSizeMB, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		rfqHandler,
		quoteHandler,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
