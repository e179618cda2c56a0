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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/nagarseva/nagarseva-api/internal/config"
	"github.com/nagarseva/nagarseva-api/internal/database"
	"github.com/nagarseva/nagarseva-api/internal/handlers"
	"github.com/nagarseva/nagarseva-api/internal/jobs"
	"github.com/nagarseva/nagarseva-api/internal/middleware"
	"github.com/nagarseva/nagarseva-api/internal/repository"
	"github.com/nagarseva/nagarseva-api/internal/services"
	"github.com/nagarseva/nagarseva-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title NagarSeva API
// @version 1.0
// @description Fee assessment, demand and payment ledger engine for citizen government services

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
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

	if cfg.GatewayWebhookSecret == "" {
		logger.Warn("GATEWAY_WEBHOOK_SECRET not set: gateway callbacks will be rejected as misconfigured")
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

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate schema", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

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
	router.Use(middleware.Identity())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)
		v1.GET("/jobs/status", h.Job.Status)

		// Fee assessment
		v1.POST("/applications/:arn/fees/assess", h.Fee.Assess)
		v1.GET("/applications/:arn/fees", h.Fee.Index)

		// Demands
		v1.POST("/applications/:arn/demands", h.Demand.Create)
		v1.GET("/applications/:arn/demands", h.Demand.Index)
		v1.GET("/demands/:demand_id", h.Demand.Show)
		v1.POST("/demands/:demand_id/waive", h.Demand.Waive)
		v1.POST("/demands/:demand_id/cancel", h.Demand.Cancel)

		// Payments
		v1.POST("/applications/:arn/payments", h.Payment.Create)
		v1.GET("/applications/:arn/payments", h.Payment.Index)
		v1.POST("/payments/gateway/callback", h.Payment.GatewayCallback)
		v1.GET("/payments/:payment_id", h.Payment.Show)
		v1.GET("/payments/:payment_id/receipt", h.Payment.Receipt)

		// Refunds
		v1.POST("/payments/:payment_id/refunds", h.Refund.Create)
		v1.GET("/refunds/:refund_id", h.Refund.Show)
		v1.POST("/refunds/:refund_id/approve", h.Refund.Approve)
		v1.POST("/refunds/:refund_id/reject", h.Refund.Reject)
		v1.POST("/refunds/:refund_id/process", h.Refund.Process)

		// Property dues ledger
		v1.GET("/properties/:upn/dues", h.Dues.Ledger)
		v1.POST("/properties/:upn/dues/payments", h.Dues.PostPayment)

		// Audit trail
		v1.GET("/audits", h.Audit.Index)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Daily overdue demand scan
	worker.ScheduleEveryImmediate(24*time.Hour, func(ctx context.Context) error {
		return svcs.Demand.NotifyOverdueDemands(ctx)
	})
}
