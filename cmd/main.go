package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"sitedesk/internal/caching"
	"sitedesk/internal/config"
	"sitedesk/internal/handlers"
	"sitedesk/internal/jobs"
	"sitedesk/internal/jobs/background"
	"sitedesk/internal/middleware"
	"sitedesk/internal/repositories"
	"sitedesk/internal/services"
	"sitedesk/pkg/database"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pool, err := database.NewPool(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cacheSvc := caching.NewRedisCacheService(redisClient)

	attachmentStore, err := services.NewMinioAttachmentStore(
		cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := attachmentStore.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not verify attachment bucket: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	materialRepo := repositories.NewMaterialRepo(pool)
	objectRepo := repositories.NewObjectRepo(pool)
	workRepo := repositories.NewPlannedWorkRepo(pool)
	reportRepo := repositories.NewDailyReportRepo(pool)
	settingRepo := repositories.NewSettingRepo(pool)
	auditRepo := repositories.NewAuditLogRepo(pool)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.TokenTTL())
	materialSvc := services.NewMaterialService(materialRepo, cacheSvc)
	allocationSvc := services.NewAllocationService(pool, cacheSvc)
	movementSvc := services.NewMovementService(pool, allocationSvc, attachmentStore, cacheSvc)
	workSvc := services.NewPlannedWorkService(workRepo, objectRepo)

	// Background jobs
	sweepJob := jobs.NewOverdueSweepService(workRepo)
	backfillJob := jobs.NewReportBackfillService(objectRepo, workRepo, reportRepo, settingRepo)

	var scheduler *background.JobScheduler
	if cfg.Scheduler.Enabled {
		scheduler = background.NewJobScheduler(sweepJob, backfillJob, cfg.SweepInterval(), cfg.BackfillInterval())
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Printf("Failed to stop scheduler: %v", err)
			}
		}()
	}

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	supplyHandlers := handlers.NewSupplyHandlers(movementSvc, allocationSvc)
	materialHandlers := handlers.NewMaterialHandlers(materialSvc)
	objectHandlers := handlers.NewObjectHandlers(objectRepo)
	workHandlers := handlers.NewWorkHandlers(workSvc)
	reportHandlers := handlers.NewReportHandlers(reportRepo)
	userHandlers := handlers.NewUserHandlers(userRepo)
	auditHandlers := handlers.NewAuditHandlers(auditRepo)
	jobHandlers := handlers.NewJobHandlers(sweepJob, backfillJob, scheduler)
	healthHandlers := handlers.NewHealthHandlers(pool, redisClient)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	// Public routes
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.POST("/auth/signup", authHandlers.Signup)
	e.POST("/auth/login", authHandlers.Login)

	authMW := middleware.JWTMiddleware(userRepo, cfg.Auth.JWTSecret)
	auditMW := middleware.NewAuditMiddleware(auditRepo)

	// Supply ledger routes
	supply := e.Group("/api/supply", authMW, auditMW.AuditRequest())
	supply.POST("/movements", supplyHandlers.RecordMovement, middleware.RequirePermission(services.ActionSupplyRecord))
	supply.GET("/movements", supplyHandlers.ListMovements, middleware.RequirePermission(services.ActionSupplyView))
	supply.GET("/allocations", supplyHandlers.ListAllocations, middleware.RequirePermission(services.ActionSupplyView))
	supply.GET("/user/:id/allocations", supplyHandlers.ListUserAllocations, middleware.RequirePermission(services.ActionSupplyView))

	v1 := e.Group("/v1", authMW, auditMW.AuditRequest())

	v1.POST("/supply/allocations/rebuild", supplyHandlers.RebuildAllocations, middleware.RequirePermission(services.ActionJobsManage))
	v1.GET("/supply/attachments/:id", supplyHandlers.DownloadAttachment, middleware.RequirePermission(services.ActionSupplyView))

	v1.POST("/materials", materialHandlers.CreateMaterial, middleware.RequirePermission(services.ActionMaterialsManage))
	v1.GET("/materials", materialHandlers.ListMaterials, middleware.RequirePermission(services.ActionSupplyView))
	v1.GET("/materials/low-stock", materialHandlers.ListLowStock, middleware.RequirePermission(services.ActionSupplyView))
	v1.GET("/materials/:id", materialHandlers.GetMaterial, middleware.RequirePermission(services.ActionSupplyView))
	v1.PUT("/materials/:id", materialHandlers.UpdateMaterial, middleware.RequirePermission(services.ActionMaterialsManage))
	v1.DELETE("/materials/:id", materialHandlers.DeleteMaterial, middleware.RequirePermission(services.ActionMaterialsManage))

	v1.POST("/objects", objectHandlers.CreateObject, middleware.RequirePermission(services.ActionObjectsManage))
	v1.GET("/objects", objectHandlers.ListObjects, middleware.RequirePermission(services.ActionObjectsView))
	v1.GET("/objects/:id", objectHandlers.GetObject, middleware.RequirePermission(services.ActionObjectsView))
	v1.PUT("/objects/:id", objectHandlers.UpdateObject, middleware.RequirePermission(services.ActionObjectsManage))
	v1.DELETE("/objects/:id", objectHandlers.DeleteObject, middleware.RequirePermission(services.ActionObjectsManage))
	v1.POST("/objects/:id/elements", objectHandlers.CreateElement, middleware.RequirePermission(services.ActionObjectsManage))
	v1.GET("/objects/:id/elements", objectHandlers.ListElements, middleware.RequirePermission(services.ActionObjectsView))
	v1.PUT("/elements/:id", objectHandlers.UpdateElement, middleware.RequirePermission(services.ActionObjectsManage))
	v1.DELETE("/elements/:id", objectHandlers.DeleteElement, middleware.RequirePermission(services.ActionObjectsManage))

	v1.POST("/works", workHandlers.CreateWork, middleware.RequirePermission(services.ActionWorksManage))
	v1.GET("/works/:id", workHandlers.GetWork, middleware.RequirePermission(services.ActionWorksView))
	v1.PUT("/works/:id", workHandlers.UpdateWork, middleware.RequirePermission(services.ActionWorksManage))
	v1.PUT("/works/:id/status", workHandlers.ChangeWorkStatus, middleware.RequirePermission(services.ActionWorksManage))
	v1.DELETE("/works/:id", workHandlers.DeleteWork, middleware.RequirePermission(services.ActionWorksManage))
	v1.GET("/objects/:id/works", workHandlers.ListWorks, middleware.RequirePermission(services.ActionWorksView))

	v1.GET("/reports", reportHandlers.ListReports, middleware.RequirePermission(services.ActionReportsView))

	v1.GET("/me", userHandlers.Me)
	v1.GET("/users", userHandlers.ListUsers, middleware.RequirePermission(services.ActionUsersManage))
	v1.GET("/users/:id", userHandlers.GetUser, middleware.RequirePermission(services.ActionUsersManage))
	v1.PUT("/users/:id", userHandlers.UpdateUser, middleware.RequirePermission(services.ActionUsersManage))

	v1.GET("/audit-logs", auditHandlers.ListAuditLogs, middleware.RequirePermission(services.ActionAuditView))

	v1.POST("/jobs/overdue-sweep", jobHandlers.TriggerOverdueSweep, middleware.RequirePermission(services.ActionJobsManage))
	v1.POST("/jobs/report-backfill", jobHandlers.TriggerReportBackfill, middleware.RequirePermission(services.ActionJobsManage))
	v1.GET("/jobs/status", jobHandlers.GetJobStatus, middleware.RequirePermission(services.ActionJobsManage))

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
