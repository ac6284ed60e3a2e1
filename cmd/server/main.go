// Package main runs the LMS streaming HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meridian-lms/backend/config"
	"github.com/meridian-lms/backend/internal/access"
	"github.com/meridian-lms/backend/internal/auth"
	"github.com/meridian-lms/backend/internal/catalog"
	"github.com/meridian-lms/backend/internal/features"
	"github.com/meridian-lms/backend/internal/middleware"
	"github.com/meridian-lms/backend/internal/orders"
	"github.com/meridian-lms/backend/internal/progress"
	"github.com/meridian-lms/backend/internal/streaming"
	"github.com/meridian-lms/backend/pkg/database"
	"github.com/meridian-lms/backend/pkg/kv"
	"github.com/meridian-lms/backend/pkg/metrics"
	"github.com/meridian-lms/backend/pkg/redis"
	"github.com/meridian-lms/backend/pkg/response"
	"github.com/meridian-lms/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			VideosBucket:         cfg.AWS.VideosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	m := metrics.New()
	kvStore := kv.NewRedis(rdb.Client)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Catalog and billing read side
	catalogRepo := catalog.NewRepository(pool)
	ordersRepo := orders.NewRepository(pool)

	// Access gates
	accessSvc := access.NewService(catalogRepo, ordersRepo, kvStore,
		time.Duration(cfg.HLS.EnrollmentCacheSeconds)*time.Second, logger)
	progressRepo := progress.NewRepository(pool)
	progressSvc := progress.NewService(catalogRepo, progressRepo, logger)
	progressHandler := progress.NewHandler(progressSvc, catalogRepo, logger)

	// Feature flags
	settingsRepo := features.NewRepository(pool)
	flagSvc := features.NewService(settingsRepo, logger)
	settingsHandler := features.NewHandler(settingsRepo, logger)

	// Streaming core
	tokenSvc := streaming.NewTokenService(kvStore, time.Duration(cfg.HLS.TokenTTLSeconds)*time.Second)
	originGuard := streaming.NewOriginGuard(cfg.HLS.AllowedOrigins)
	var presigner streaming.FilePresigner
	if s3Client != nil {
		presigner = s3Client
	}
	streamHandler := streaming.NewHandler(catalogRepo, accessSvc, progressSvc, flagSvc,
		tokenSvc, originGuard, presigner, cfg.HLS.RootDir, cfg.Server.PublicBaseURL, logger, m)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(m))

	// Health and observability
	router.GET("/health", func(c *gin.Context) { response.OK(c, "ok", nil) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Manifest/segment delivery: no session auth, the capability token in
	// the URL is the credential. Origin is validated inside the handler.
	router.GET("/api/hls/:token", streamHandler.ServeHLS)
	router.GET("/api/hls/:token/*path", streamHandler.ServeHLS)

	// Protected API (JWT required)
	api := router.Group("/api")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/stream/:lectureId", streamHandler.Stream)
		api.POST("/progress/:lectureId", progressHandler.Update)

		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.GET("/settings/:key", settingsHandler.Get)
			admin.PUT("/settings/:key", settingsHandler.Update)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
