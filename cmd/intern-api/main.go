package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/noah-isme/pln-intern-api/api/swagger"
	"github.com/noah-isme/pln-intern-api/internal/handler"
	"github.com/noah-isme/pln-intern-api/internal/middleware"
	"github.com/noah-isme/pln-intern-api/internal/models"
	"github.com/noah-isme/pln-intern-api/internal/repository"
	"github.com/noah-isme/pln-intern-api/internal/service"
	"github.com/noah-isme/pln-intern-api/internal/store"
	"github.com/noah-isme/pln-intern-api/pkg/cache"
	"github.com/noah-isme/pln-intern-api/pkg/config"
	"github.com/noah-isme/pln-intern-api/pkg/database"
	"github.com/noah-isme/pln-intern-api/pkg/jobs"
	"github.com/noah-isme/pln-intern-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/pln-intern-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/pln-intern-api/pkg/middleware/requestid"
	"github.com/noah-isme/pln-intern-api/pkg/storage"
)

// @title PLN Intern API
// @version 1.0.0
// @description Internship and mentorship record keeping service
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Document store.
	st, err := store.Open(cfg.Store.Dir, cfg.Store.KeyPrefix, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "error", err)
	}
	var seed *store.SeedData
	if cfg.Store.SeedOnInit {
		if seed, err = store.DefaultSeed(); err != nil {
			logr.Sugar().Fatalw("failed to build seed data", "error", err)
		}
	}
	if err := st.Migrate(seed); err != nil {
		logr.Sugar().Fatalw("failed to migrate store", "error", err)
	}

	// Repositories.
	mentorRepo := repository.NewMentorRepository(st)
	internRepo := repository.NewInternRepository(st)
	galleryRepo := repository.NewGalleryRepository(st)
	backupRepo := repository.NewBackupRepository(st)

	// Metrics. The mirror queue gauge binds late because the mirror needs
	// the metrics service first.
	var mirrorSvc *service.MirrorService
	metricsSvc := service.NewMetricsService(func() int {
		if mirrorSvc == nil {
			return 0
		}
		return mirrorSvc.PendingChanges()
	})

	// Optional Redis cache for dashboard aggregates.
	var cacheRepo service.CacheRepository
	if cfg.Store.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Store.DashboardTTL, logr, cfg.Store.CacheEnabled && cacheRepo != nil)

	// Optional Postgres mirror.
	if cfg.Mirror.Enabled {
		db, err := database.NewPostgres(cfg.Mirror)
		if err != nil {
			logr.Sugar().Warnw("mirror database unavailable, mirroring disabled", "error", err)
		} else {
			mirrorRepo := repository.NewMirrorRepository(db)
			mirrorSvc = service.NewMirrorService(mirrorRepo, backupRepo, metricsSvc, logr, jobs.QueueConfig{
				Workers:    cfg.Mirror.Workers,
				MaxRetries: cfg.Mirror.MaxRetries,
				RetryDelay: cfg.Mirror.RetryDelay,
				Logger:     logr,
			}, cfg.Mirror.PingInterval)
			mirrorSvc.Start(ctx)
			defer mirrorSvc.Stop()
			st.Subscribe(mirrorSvc.HandleEvent)
		}
	}

	// Store writes invalidate cached dashboard aggregates.
	if cacheSvc.Enabled() {
		st.Subscribe(func(ev store.Event) {
			invalidateCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = cacheSvc.Invalidate(invalidateCtx, service.DashboardCacheKeyPrefix+"*")
		})
	}

	// Services.
	adminHash := cfg.Admin.PasswordHash
	if adminHash == "" && cfg.Admin.Password != "" {
		raw, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			logr.Sugar().Fatalw("failed to hash admin password", "error", err)
		}
		adminHash = string(raw)
	}
	authSvc := service.NewAuthService(mentorRepo, nil, logr, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		Expiry:            cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		AdminUsername:     cfg.Admin.Username,
		AdminPasswordHash: adminHash,
	})
	mentorSvc := service.NewMentorService(mentorRepo, internRepo, nil, logr)
	internSvc := service.NewInternService(internRepo, mentorRepo, mentorSvc, galleryRepo, nil, logr)
	gallerySvc := service.NewGalleryService(galleryRepo, internRepo, nil, logr)

	var syncSource service.MirrorObserver
	if mirrorSvc != nil {
		syncSource = mirrorSvc
	}
	backupSvc := service.NewBackupService(backupRepo, st, syncSource, logr)
	dashboardSvc := service.NewDashboardService(internRepo, mentorRepo, galleryRepo, backupSvc, cacheSvc, metricsSvc, cfg.Store.DashboardTTL, logr)

	uploadStorage, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportStorage, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exportSvc := service.NewExportService(internRepo, mentorRepo, exportStorage, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
	}, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	mentorHandler := handler.NewMentorHandler(mentorSvc, internSvc)
	internHandler := handler.NewInternHandler(internSvc)
	galleryHandler := handler.NewGalleryHandler(gallerySvc)
	backupHandler := handler.NewBackupHandler(backupSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	uploadHandler := handler.NewUploadHandler(uploadStorage)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, st)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/mentor/login", authHandler.LoginMentor)
		api.POST("/auth/admin/login", authHandler.LoginAdmin)
		api.GET("/auth/me", middleware.JWT(authSvc), authHandler.Me)

		// Public roster reads plus the submission form endpoint.
		api.GET("/mentors", mentorHandler.List)
		api.GET("/mentors/:id", mentorHandler.Get)
		api.GET("/interns", internHandler.List)
		api.GET("/interns/search", internHandler.Search)
		api.GET("/interns/:id", internHandler.Get)
		api.POST("/interns", internHandler.Create)
		api.GET("/gallery", galleryHandler.List)
		api.GET("/gallery/:id", galleryHandler.Get)
		api.GET("/dashboard/statistics", dashboardHandler.Statistics)
		api.GET("/dashboard/overview", dashboardHandler.Overview)
		api.GET("/sync/status", backupHandler.SyncStatus)
		api.GET("/exports/:token", exportHandler.Download)

		authed := api.Group("", middleware.JWT(authSvc))
		{
			authed.POST("/uploads", uploadHandler.Upload)

			// Mentors see their own roster; admins see any.
			authed.GET("/mentors/:id/interns",
				middleware.RBAC(string(models.RoleAdmin), middleware.RoleSelf),
				mentorHandler.Interns)

			reviewers := authed.Group("", middleware.RequireRoles(models.RoleAdmin, models.RoleMentor))
			{
				reviewers.POST("/interns/:id/approve", internHandler.Approve)
				reviewers.POST("/interns/:id/reject", internHandler.Reject)
			}

			admin := authed.Group("", middleware.RequireRoles(models.RoleAdmin))
			{
				admin.POST("/mentors", mentorHandler.Create)
				admin.PUT("/mentors/:id", mentorHandler.Update)
				admin.DELETE("/mentors/:id", mentorHandler.Delete)

				admin.PUT("/interns/:id", internHandler.Update)
				admin.DELETE("/interns/:id", internHandler.Delete)

				admin.POST("/gallery", galleryHandler.Create)
				admin.DELETE("/gallery/:id", galleryHandler.Delete)

				admin.GET("/backup/export", backupHandler.Export)
				admin.POST("/backup/import", backupHandler.Import)
				admin.POST("/backup/reset", backupHandler.Reset)
				admin.POST("/backup/clear", backupHandler.Clear)

				admin.POST("/exports", exportHandler.Generate)
			}
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
