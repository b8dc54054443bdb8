package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"

	"github.com/mcavalcanti/lexora-api/internal/config"
	"github.com/mcavalcanti/lexora-api/internal/database"
	"github.com/mcavalcanti/lexora-api/internal/handlers"
	"github.com/mcavalcanti/lexora-api/internal/jobs"
	"github.com/mcavalcanti/lexora-api/internal/middleware"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/internal/services"
	"github.com/mcavalcanti/lexora-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database schema up to date")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Create context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)

		// Clients and their financial profile
		clients := v1.Group("/clients")
		{
			clients.GET("", h.Client.Index)
			clients.POST("", h.Client.Create)
			clients.GET("/:client_id", h.Client.Show)
			clients.PUT("/:client_id", h.Client.Update)
			clients.DELETE("/:client_id", h.Client.Delete)
			clients.PUT("/:client_id/financial_profile", h.Client.SaveFinancialProfile)
			clients.GET("/:client_id/summary", h.Client.Summary)
			clients.GET("/:client_id/cases", h.Case.ByClient)
			clients.POST("/:client_id/cases", h.Case.Create)
		}

		// Legal cases
		cases := v1.Group("/cases")
		{
			cases.GET("", h.Case.Index)
			cases.GET("/:case_id", h.Case.Show)
			cases.PUT("/:case_id", h.Case.Update)
			cases.DELETE("/:case_id", h.Case.Delete)
			cases.GET("/:case_id/ledger", h.Case.Ledger)
		}

		// Ledger entries
		finance := v1.Group("/finance")
		{
			finance.GET("", h.Finance.Index)
			finance.POST("", h.Finance.Create)
			finance.GET("/summary", h.Finance.Summary)
			finance.GET("/:entry_id", h.Finance.Show)
			finance.PUT("/:entry_id", h.Finance.Update)
			finance.PUT("/:entry_id/toggle", h.Finance.Toggle)
			finance.DELETE("/:entry_id", h.Finance.Delete)
		}

		// Deadlines
		deadlines := v1.Group("/deadlines")
		{
			deadlines.GET("", h.Deadline.Index)
			deadlines.POST("", h.Deadline.Create)
			deadlines.GET("/:deadline_id", h.Deadline.Show)
			deadlines.PUT("/:deadline_id", h.Deadline.Update)
			deadlines.PUT("/:deadline_id/done", h.Deadline.MarkDone)
			deadlines.DELETE("/:deadline_id", h.Deadline.Delete)
		}

		// Notifications
		// Static route first so "mark_all_as_read" is not matched as :notification_id
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.Index)
			notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
			notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
			notifications.DELETE("/:notification_id", h.Notification.Delete)
		}

		// Reports and exports
		v1.GET("/reports/revenue_csv", h.Report.RevenueCSV)
		v1.GET("/reports/client_statement_pdf", h.Report.ClientStatementPDF)
		v1.GET("/reports/ledger_xlsx", h.Report.LedgerXLSX)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Flag overdue ledger entries every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue ledger entries...")
		return svcs.Finance.MarkOverdueEntries(ctx, time.Now())
	})

	// Deadline reminders once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending deadline reminders...")
		return svcs.Deadline.NotifyUpcoming(ctx, time.Now())
	})

	logger.Info("Scheduled recurring jobs")
}
