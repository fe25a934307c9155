package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"ads_platform_backend/config"
	"ads_platform_backend/db"
	"ads_platform_backend/logger"
	"ads_platform_backend/metrics"
	"ads_platform_backend/middleware"
	"ads_platform_backend/routes"
	"ads_platform_backend/services"
	"ads_platform_backend/store"
	"ads_platform_backend/store/memory"
	"ads_platform_backend/store/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"storage":     cfg.Storage,
	}).Info("starting ads platform backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Error initializing storage")
	}
	defer closeStore()

	tokens := middleware.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTTTL)

	created, err := services.NewAuthService(storage, tokens).EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.WithError(err).Warn("Error seeding admin account")
	} else if created {
		log.WithField("user", cfg.AdminUsername).Info("admin account created")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	limiter.StartCleanup(ctx, time.Minute)

	// Initialize router
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Metrics(m), middleware.Recovery(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
		middleware.RequestIDHeader,
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PATCH",
		"DELETE",
		"OPTIONS",
	}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	r.Use(cors.New(corsConfig))

	routes.SetupRoutes(r, routes.Dependencies{
		Store:         storage,
		Tokens:        tokens,
		Limiter:       limiter,
		Metrics:       m,
		Log:           log,
		MaxImageBytes: cfg.MaxImageBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}
}

// openStore returns the configured storage backend and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config) (store.Storage, func(), error) {
	if cfg.Storage == config.StorageMemory {
		return memory.New(), func() {}, nil
	}

	database, err := db.Initialize(ctx, db.Config{
		DSN:             cfg.DSN(),
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.InitSchema(ctx, database); err != nil {
		database.Close()
		return nil, nil, err
	}
	return postgres.New(database), func() { database.Close() }, nil
}
