package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/blog-platform/config"
	"github.com/ErlanBelekov/blog-platform/internal/email"
	"github.com/ErlanBelekov/blog-platform/internal/health"
	"github.com/ErlanBelekov/blog-platform/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/blog-platform/internal/log"
	"github.com/ErlanBelekov/blog-platform/internal/media"
	"github.com/ErlanBelekov/blog-platform/internal/metrics"
	"github.com/ErlanBelekov/blog-platform/internal/password"
	"github.com/ErlanBelekov/blog-platform/internal/session"
	"github.com/ErlanBelekov/blog-platform/internal/stats"
	"github.com/ErlanBelekov/blog-platform/internal/token"
	httptransport "github.com/ErlanBelekov/blog-platform/internal/transport/http"
	"github.com/ErlanBelekov/blog-platform/internal/transport/http/handler"
	"github.com/ErlanBelekov/blog-platform/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if cfg.MigrateOnStart {
		if err := migrateUp(cfg.DatabaseURL); err != nil {
			stop()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	deps := map[string]health.Pinger{"postgres": pool}

	// Images
	var uploader media.Uploader = media.DisabledUploader{}
	if cfg.UploadsEnabled() {
		store, err := media.NewMinioStore(media.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			stop()
			log.Fatalf("minio: %v", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			stop()
			log.Fatalf("minio bucket: %v", err)
		}
		baseURL := media.PublicBaseURL(cfg.MinioPublicURL, cfg.MinioEndpoint, cfg.MinioUseSSL)
		uploader = media.NewObjectUploader(store, baseURL, logger)
		deps["object_store"] = store
	} else {
		logger.Warn("MINIO_ENDPOINT not set, image uploads disabled")
	}

	// Auth
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), token.DefaultTTL)
	sessions := session.NewTransport(issuer.TTL(), cfg.SecureCookies())
	userRepo := postgres.NewUserRepository(pool)
	authUsecase := usecase.NewAuthUsecase(
		userRepo,
		password.NewHasher(cfg.BcryptCost),
		issuer,
		email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger),
		logger,
	)
	authHandler := handler.NewAuthHandler(authUsecase, sessions, logger)

	// Blogs
	blogRepo := postgres.NewBlogRepository(pool)
	blogUsecase := usecase.NewBlogUsecase(blogRepo, uploader, logger)
	blogHandler := handler.NewBlogHandler(blogUsecase, logger)

	refresher, err := stats.NewRefresher(blogRepo, cfg.StatsSchedule, logger)
	if err != nil {
		stop()
		log.Fatalf("stats: %v", err)
	}

	metrics.Register(prometheus.DefaultRegisterer)
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger,
			httptransport.RouterConfig{CORSOrigins: cfg.CORSOrigins, HSTS: cfg.SecureCookies()},
			authHandler,
			blogHandler,
			issuer,
			sessions,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, prometheus.DefaultGatherer, map[string]http.Handler{
		"/healthz": checker.LivenessHandler(),
		"/readyz":  checker.ReadinessHandler(),
	})

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	statsDone := make(chan struct{})
	go func() {
		defer close(statsDone)
		refresher.Start(ctx)
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
	<-statsDone
}

func migrateUp(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
