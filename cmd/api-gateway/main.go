package main

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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/school-portal-api/api/swagger"
	"github.com/noah-isme/school-portal-api/internal/handler"
	"github.com/noah-isme/school-portal-api/internal/middleware"
	"github.com/noah-isme/school-portal-api/internal/repository"
	"github.com/noah-isme/school-portal-api/internal/router"
	"github.com/noah-isme/school-portal-api/internal/service"
	"github.com/noah-isme/school-portal-api/pkg/cache"
	"github.com/noah-isme/school-portal-api/pkg/config"
	"github.com/noah-isme/school-portal-api/pkg/database"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/school-portal-api/pkg/push"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

// @title School Portal API
// @version 1.0.0
// @description Management portal and marketing site backend for a play school.
// @BasePath /api/v1
// @schemes http https

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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer rdb.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	homeworkRepo := repository.NewHomeworkRepository(db)
	syllabusRepo := repository.NewSyllabusRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	diaryRepo := repository.NewDiaryRepository(db)
	transportRepo := repository.NewTransportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	contentRepo := repository.NewContentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(rdb, logr)

	// Cross-cutting services.
	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Content.CacheTTL, logr, true)
	policy := service.NewAccessPolicy(classRepo, teacherRepo, studentRepo, logr)
	provisioner := service.NewAccountProvisioner(userRepo, logr)

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "school-portal-api",
		Audience:           []string{"school-portal"},
	})

	// Domain services.
	userService := service.NewUserService(userRepo, nil, logr)
	teacherService := service.NewTeacherService(teacherRepo, provisioner, nil, logr)
	studentService := service.NewStudentService(studentRepo, classRepo, provisioner, nil, logr)
	classService := service.NewClassService(classRepo, teacherRepo, nil, logr)
	subjectService := service.NewSubjectService(subjectRepo, classRepo, nil, logr)
	homeworkService := service.NewHomeworkService(homeworkRepo, subjectRepo, nil, logr)
	syllabusService := service.NewSyllabusService(syllabusRepo, subjectRepo, nil, logr)
	timetableService := service.NewTimetableService(timetableRepo, nil, logr)
	generatorService := service.NewTimetableGeneratorService(classRepo, subjectRepo, timetableRepo, nil, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, studentRepo, policy, nil, logr)
	diaryService := service.NewDiaryService(diaryRepo, studentRepo, policy, nil, logr)
	transportService := service.NewTransportService(transportRepo, studentRepo, provisioner, nil, logr)
	trackingService := service.NewTrackingService(transportRepo, cacheRepo, cfg.Tracking.PositionTTL, cfg.Tracking.ChannelPrefix, nil, logr)
	contentService := service.NewContentService(contentRepo, classRepo, cacheService, cfg.Content.CacheTTL, nil, logr)

	var notificationService *service.NotificationService
	if cfg.Push.Enabled {
		notificationService = service.NewNotificationService(notificationRepo, push.NewClient(cfg.Push.URL, cfg.Push.Timeout), nil, logr)
	} else {
		notificationService = service.NewNotificationService(notificationRepo, nil, nil, logr)
	}

	// Report export pipeline.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reportService *service.ReportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportService := service.NewExportService(attendanceRepo, timetableRepo, classRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, nil, nil)

		worker := service.NewReportWorker(reportRepo, exportService, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)

		reportService = service.NewReportService(reportRepo, policy, reportQueue, exportService, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportService.RecoverPendingJobs(ctx)
		reportService.StartCleanup(ctx)
	}

	// HTTP layer.
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Teacher:      handler.NewTeacherHandler(teacherService),
		Student:      handler.NewStudentHandler(studentService),
		Class:        handler.NewClassHandler(classService),
		Subject:      handler.NewSubjectHandler(subjectService),
		Homework:     handler.NewHomeworkHandler(homeworkService, policy),
		Syllabus:     handler.NewSyllabusHandler(syllabusService, policy),
		Timetable:    handler.NewTimetableHandler(timetableService, generatorService),
		Attendance:   handler.NewAttendanceHandler(attendanceService),
		Diary:        handler.NewDiaryHandler(diaryService),
		Transport:    handler.NewTransportHandler(transportService),
		Tracking:     handler.NewTrackingHandler(trackingService, logr, cfg.CORS.AllowedOrigins),
		Notification: handler.NewNotificationHandler(notificationService),
		Content:      handler.NewContentHandler(contentService),
		Report:       handler.NewReportHandler(reportService),
		Metrics:      handler.NewMetricsHandler(metricsService),
	}
	router.Register(r, cfg.APIPrefix, authService, userRepo, handlers)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Sugar().Infow("shutting down", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("http shutdown failed", "error", err)
	}

	cancel()
	if reportQueue != nil {
		reportQueue.Stop()
	}
	logr.Sugar().Infow("shutdown complete")
}
