package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/univ-admin-api/api/swagger"
	"github.com/noah-isme/univ-admin-api/internal/conflict"
	"github.com/noah-isme/univ-admin-api/internal/handler"
	internalmiddleware "github.com/noah-isme/univ-admin-api/internal/middleware"
	"github.com/noah-isme/univ-admin-api/internal/repository"
	"github.com/noah-isme/univ-admin-api/internal/service"
	"github.com/noah-isme/univ-admin-api/pkg/cache"
	"github.com/noah-isme/univ-admin-api/pkg/config"
	"github.com/noah-isme/univ-admin-api/pkg/database"
	"github.com/noah-isme/univ-admin-api/pkg/export"
	"github.com/noah-isme/univ-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/univ-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/univ-admin-api/pkg/middleware/requestid"
)

// @title University Admin API
// @version 1.0.0
// @description Workload and timetable conflict detection for the administration dashboard
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// reports are still served uncached
		logr.Sugar().Warnw("redis unavailable, conflict cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Conflicts.CacheTTL, logr, cfg.Conflicts.CacheEnabled && cacheRepo.Enabled())

	teacherRepo := repository.NewTeacherRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	eventRepo := repository.NewTimetableEventRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	workloadSvc := service.NewWorkloadService(teacherRepo, assignmentRepo, cacheSvc, metricsSvc, service.WorkloadServiceConfig{
		Policy:     workloadPolicy(cfg.Workload),
		Thresholds: conflict.Thresholds{UnderloadPct: cfg.Workload.UnderloadThresholdPct, OverloadPct: cfg.Workload.OverloadThresholdPct},
		CacheTTL:   cfg.Conflicts.CacheTTL,
	}, validate, logr)
	timetableSvc := service.NewTimetableService(eventRepo, roomRepo, cacheSvc, metricsSvc, service.TimetableServiceConfig{
		RoomCapacities:   conflict.MergeCapacities(conflict.DefaultRoomCapacities, cfg.Timetable.RoomCapacities),
		StrictTimeRanges: cfg.Timetable.StrictTimeRanges,
		CacheTTL:         cfg.Conflicts.CacheTTL,
	}, validate, logr)

	refresher := service.NewConflictRefresher(cacheSvc, metricsSvc, map[string]service.ReportWarmer{
		service.DomainWorkload:  workloadSvc,
		service.DomainTimetable: timetableSvc,
	}, service.RefresherConfig{
		Workers:    cfg.Conflicts.WorkerConcurrency,
		MaxRetries: cfg.Conflicts.WorkerRetries,
		RetryDelay: 2 * time.Second,
	}, logr)
	timetableSvc.SetNotifier(refresher)

	teacherSvc := service.NewTeacherService(teacherRepo, refresher, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, teacherRepo, refresher, validate, logr)
	eventSvc := service.NewTimetableEventService(eventRepo, refresher, cfg.Timetable.StrictTimeRanges, validate, logr)
	exportSvc := service.NewExportService(workloadSvc, timetableSvc, export.NewCSVExporter(), export.NewPDFExporter(), cfg.Reports.PDFTitle, validate, logr)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	refresher.Start(workerCtx)
	defer refresher.Stop()

	workloadHandler := handler.NewWorkloadHandler(workloadSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc, workloadSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, eventSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, readinessChecks(db, redisClient))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	workload := api.Group("/workload")
	workload.GET("/conflicts", workloadHandler.Conflicts)
	workload.GET("/teachers", workloadHandler.Teachers)

	assignments := api.Group("/assignments")
	assignments.GET("", assignmentHandler.List)
	assignments.POST("", assignmentHandler.Create)
	assignments.DELETE("/:id", assignmentHandler.Delete)

	teachers := api.Group("/teachers")
	teachers.GET("", teacherHandler.List)
	teachers.GET("/:id", teacherHandler.Get)
	teachers.POST("", teacherHandler.Create)
	teachers.PUT("/:id", teacherHandler.Update)
	teachers.GET("/:id/workload", teacherHandler.Workload)

	timetable := api.Group("/timetable")
	timetable.GET("/conflicts", timetableHandler.Conflicts)
	timetable.GET("/events", timetableHandler.ListEvents)
	timetable.POST("/events", timetableHandler.CreateEvent)
	timetable.PUT("/events/:id", timetableHandler.UpdateEvent)
	timetable.DELETE("/events/:id", timetableHandler.DeleteEvent)
	timetable.GET("/rooms", timetableHandler.Rooms)
	timetable.PUT("/rooms/:name", timetableHandler.SetRoom)

	if cfg.Reports.Enabled {
		api.GET("/conflicts/export", exportHandler.Export)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func workloadPolicy(cfg config.WorkloadConfig) conflict.Policy {
	policy := conflict.DefaultPolicy()
	for grade, hours := range cfg.GradeMaxHours {
		policy.GradeMaxHours[grade] = hours
	}
	if cfg.DefaultMaxHours > 0 {
		policy.DefaultMaxHours = cfg.DefaultMaxHours
	}
	if cfg.SeverityMarginPct > 0 {
		policy.SeverityMarginPct = cfg.SeverityMarginPct
	}
	return policy
}

func readinessChecks(db *sqlx.DB, client *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{
		"database": db.PingContext,
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return checks
}
