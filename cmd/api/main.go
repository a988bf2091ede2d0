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

	"github.com/rohitjain-pio/hrms-leave-api/internal/config"
	"github.com/rohitjain-pio/hrms-leave-api/internal/database"
	"github.com/rohitjain-pio/hrms-leave-api/internal/handlers"
	"github.com/rohitjain-pio/hrms-leave-api/internal/jobs"
	"github.com/rohitjain-pio/hrms-leave-api/internal/middleware"
	"github.com/rohitjain-pio/hrms-leave-api/internal/repository"
	"github.com/rohitjain-pio/hrms-leave-api/internal/services"
	"github.com/rohitjain-pio/hrms-leave-api/pkg/logger"

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

	// Initialize repositories
	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, uow, worker, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs, cfg)

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
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.POST("/employees/:employee_id/balances/:leave_type_id/adjust", h.Admin.AdjustBalance)
				admin.POST("/accruals/run", h.Admin.RunAccrual)
				admin.GET("/audits", h.Audit.Index)
				admin.GET("/jobs/status", h.Job.Status)
			}

			// Decision routes (manager or admin)
			approvals := protected.Group("")
			approvals.Use(middleware.RequireRole("admin", "manager"))
			{
				approvals.POST("/leave_requests/:leave_request_id/approve", h.Leave.Approve)
				approvals.POST("/leave_requests/:leave_request_id/reject", h.Leave.Reject)
				approvals.POST("/comp_off_requests/:comp_off_request_id/accept", h.CompOff.Accept)
				approvals.POST("/comp_off_requests/:comp_off_request_id/reject", h.CompOff.Reject)
			}

			// Balance data access (admin, manager, or owner)
			balances := protected.Group("/employees/:employee_id")
			balances.Use(middleware.RequireAdminManagerOrOwner())
			{
				balances.GET("/balances", h.Balance.Index)
				balances.GET("/balances/:leave_type_id", h.Balance.Show)
				balances.GET("/ledger", h.Balance.Ledger)
			}

			// Leave requests (all authenticated employees)
			protected.GET("/leave_requests", h.Leave.Index)
			protected.POST("/leave_requests", h.Leave.Create)
			protected.GET("/leave_requests/:leave_request_id", h.Leave.Show)

			// Comp-off and swap requests
			protected.GET("/comp_off_requests", h.CompOff.Index)
			protected.POST("/comp_off_requests", h.CompOff.Create)
			protected.DELETE("/comp_off_requests/:comp_off_request_id", h.CompOff.Delete)

			// Notifications (employees manage their own)
			// Static route first so "mark_all_as_read" is not matched as :notification_id
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
				notifications.GET("/:notification_id", h.Notification.Show)
				notifications.DELETE("/:notification_id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	interval := time.Duration(cfg.AccrualCheckIntervalHours) * time.Hour

	// Monthly accrual: the check runs at startup and then on the interval,
	// credits only on the first of the month and skips cycles that already
	// ran, so a restart on the 1st neither misses nor doubles the month.
	worker.ScheduleEveryImmediate(interval, func(ctx context.Context) error {
		logger.Info("[Job] Checking scheduled accruals...")
		return svcs.Accrual.RunScheduledAccruals(ctx, time.Now())
	})

	logger.Info("Scheduled recurring jobs")
}
