package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/audit"
	"github.com/PotatoCodder/library-management-backend/internal/auth"
	"github.com/PotatoCodder/library-management-backend/internal/config"
	"github.com/PotatoCodder/library-management-backend/internal/database"
	auditRepo "github.com/PotatoCodder/library-management-backend/internal/database/audit"
	http_controllers "github.com/PotatoCodder/library-management-backend/internal/http"
	"github.com/PotatoCodder/library-management-backend/internal/scheduler"
	"github.com/PotatoCodder/library-management-backend/internal/services"
	"github.com/PotatoCodder/library-management-backend/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then give in-flight requests the
	// configured timeout to finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	// Stop background work after the server so no request can enqueue into a stopped queue
	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting library backend v%s", version)

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	catalog := services.NewCatalogService(db.DB)
	borrowing := services.NewBorrowingService(db.DB)
	authService := auth.NewService(db.DB, cfg.Auth)
	auditService := audit.NewService(auditRepo.NewRepository(db.DB))

	limiter := auth.NewRateLimiter(auth.RateLimitConfigFrom(cfg.Auth))
	log.Printf("Login rate limiting: %d attempts per %v, lockout %v",
		cfg.Auth.MaxLoginAttempts, cfg.Auth.RateLimitWindow, cfg.Auth.LockoutDuration)

	if cfg.Tasks.Enabled && cfg.Maintenance.Enabled {
		if err := scheduler.ValidateSchedule(cfg.Maintenance.Schedule); err != nil {
			log.Fatalf("Invalid MAINTENANCE_SCHEDULE %q: %v", cfg.Maintenance.Schedule, err)
		}
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.ConfigFrom(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupAuditEventsQueue(auditService, auditService),
			tasks.NewReconcileLoansQueue(borrowing, auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, cfg.Maintenance.Schedule, cfg.Audit.RetentionDays)
			if err := maintenance.Start(taskCtx); err != nil {
				log.Fatalf("Failed to start maintenance scheduler: %v", err)
			}
		} else {
			log.Printf("Maintenance scheduler disabled")
		}
	} else {
		log.Printf("Background tasks disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:        catalog,
		Borrowing:      borrowing,
		Auth:           authService,
		Database:       db,
		LoginLimiter:   limiter,
		Audit:          auditService,
		AuditReader:    auditService,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		HSTSMaxAge:     cfg.HTTP.HSTSMaxAge,
		MaxCoverBytes:  int64(cfg.Covers.MaxSizeMB) << 20,
		Version:        version,
	}
	// Only set when enabled; a nil *tasks.Client would be a non-nil interface
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}
	if maintenance != nil {
		routerCfg.Maintenance = maintenance
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		limiter.Stop()
		auditService.Wait()
	}

	Serve(router, cfg, onShutdown)
}
