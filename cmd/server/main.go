package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"portfolio-service/internal/adapters/primary/http/handlers"
	"portfolio-service/internal/adapters/primary/http/middleware"
	"portfolio-service/internal/adapters/secondary/cloudinary"
	"portfolio-service/internal/adapters/secondary/errorlog"
	"portfolio-service/internal/adapters/secondary/jwtsession"
	"portfolio-service/internal/adapters/secondary/localstore"
	"portfolio-service/internal/adapters/secondary/postgres"
	"portfolio-service/internal/adapters/secondary/postgres/migrations"
	"portfolio-service/internal/config"
	ports "portfolio-service/internal/core/ports/output"
	"portfolio-service/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	cfg.Logger.Apply()

	pool, err := postgres.NewPool(context.Background(), &cfg.Database)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		applied, err := postgres.ApplyMigrations(context.Background(), pool, migrations.FS)
		if err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		log.WithField("applied", applied).Info("migrations up to date")
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	projectRepo := postgres.NewProjectRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)
	sessions := jwtsession.NewManager(&cfg.Session)
	localStore := localstore.NewLocalStore(&cfg.Upload)

	errorSink := errorlog.NewSink(&cfg.ErrorLog)
	defer errorSink.Close()

	// Cloudinary (Optional - based on config)
	var cdn ports.MediaStorage
	if cfg.Cloudinary.Enabled() {
		cdn = cloudinary.NewCloudinaryClient(&cfg.Cloudinary)
		log.WithField("cloud", cfg.Cloudinary.CloudName).Info("Cloudinary uploads enabled")
	} else {
		log.Info("Cloudinary not configured, uploads stored locally")
	}

	// Core Services (Application Layer)
	projectSvc := services.NewProjectService(projectRepo, cfg.Database.QueryTimeout)
	commentSvc := services.NewCommentService(commentRepo, projectRepo)
	authSvc := services.NewAuthService(adminRepo, sessions, services.AdminBootstrap{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	uploadSvc := services.NewUploadService(cdn, localStore, services.UploadLimits{
		MaxImageBytes: cfg.Upload.MaxImageBytes,
		MaxVideoBytes: cfg.Upload.MaxVideoBytes,
		Concurrency:   cfg.Upload.Concurrency,
	})
	healthSvc := services.NewHealthService(pool, projectRepo, services.HealthInfo{
		Version:       cfg.Health.Version,
		Environment:   cfg.Env,
		CDNConfigured: cfg.Cloudinary.Enabled(),
		CDNCloudName:  cfg.Cloudinary.CloudName,
		RequiredSettings: map[string]bool{
			"DATABASE_URL":   os.Getenv("DATABASE_URL") != "",
			"SESSION_SECRET": cfg.SessionSecretConfigured(),
		},
	})
	reportSvc := services.NewErrorReportService(errorSink)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(projectSvc, commentSvc, authSvc, uploadSvc, healthSvc, reportSvc, handlers.Options{
		SessionCookie:  cfg.Session.CookieName,
		SecureCookies:  cfg.IsProduction(),
		Production:     cfg.IsProduction(),
		HealthToken:    cfg.Health.Token,
		MaxUploadBytes: cfg.Upload.MaxRequestBytes,
	})

	router := handlers.NewRouter(h, handlers.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimiter:    middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
		UploadDir:      cfg.Upload.LocalDir,
		UploadPath:     cfg.Upload.PublicPath,
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
