package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BradenHooton/meular/internal/auth"
	"github.com/BradenHooton/meular/internal/background"
	"github.com/BradenHooton/meular/internal/config"
	"github.com/BradenHooton/meular/internal/database"
	"github.com/BradenHooton/meular/internal/handlers"
	middlewareCustom "github.com/BradenHooton/meular/internal/middleware"
	"github.com/BradenHooton/meular/internal/repositories"
	"github.com/BradenHooton/meular/internal/routes"
	"github.com/BradenHooton/meular/internal/services"
	pkgauth "github.com/BradenHooton/meular/pkg/auth"
	pkghttp "github.com/BradenHooton/meular/pkg/http"
	pkglogger "github.com/BradenHooton/meular/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Server.LogLevel)}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	db, err := database.NewConnection(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = db.Migrate(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db.Pool)
	recoveryRepo := repositories.NewPasswordRecoveryRepository(db.Pool)
	propertyRepo := repositories.NewPropertyRepository(db.Pool)
	typeRepo := repositories.NewTaxonomyRepository(db.Pool, repositories.PropertyTypes)
	categoryRepo := repositories.NewTaxonomyRepository(db.Pool, repositories.PropertyCategories)

	tokenManager := auth.NewTokenManager(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)

	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    cfg.Auth.TimingBaseDelayMs,
		RandomDelayMs:  cfg.Auth.TimingRandomDelayMs,
		DelayOnSuccess: true,
	})

	mailer, err := newMailService(ctx, cfg.Mail, logger)
	if err != nil {
		return err
	}

	registry := prometheus.DefaultRegisterer
	auditLogger := pkglogger.NewAuditLogger(logger, registry, cfg.Server.Env)

	authService := services.NewAuthService(
		userRepo,
		recoveryRepo,
		pkgauth.NewArgon2Hasher(),
		tokenManager,
		mailer,
		timingDelay,
		services.AuthConfig{
			PasswordRecoveryWindow: cfg.Auth.PasswordRecoveryWindow,
			EmailValidationWindow:  cfg.Auth.EmailValidationWindow,
			EmailValidationEnabled: cfg.Auth.EmailValidationEnabled,
			ResendCooldown:         cfg.Auth.ResendCooldown,
			MailFrom:               cfg.Mail.From,
			BaseURL:                cfg.Mail.BaseURL,
		},
		logger,
		auditLogger,
	)
	propertyService := services.NewPropertyService(propertyRepo, userRepo, logger)
	typeService := services.NewTaxonomyService(typeRepo, "property type", logger)
	categoryService := services.NewTaxonomyService(categoryRepo, "property category", logger)

	ipConfig := pkghttp.NewIPConfig(cfg.Server.TrustedProxies)

	rateLimit := middlewareCustom.DefaultAuthRateLimit(ipConfig)
	if cfg.Auth.RateLimit > 0 {
		rateLimit.RequestsPerMinute = cfg.Auth.RateLimit
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.ClientIP(ipConfig))
	router.Use(middlewareCustom.NewMetrics(registry).Handler)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger, cfg.Server.Env))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Route("/v1", func(r chi.Router) {
		routes.RegisterRoutes(r, routes.Handlers{
			Auth:               handlers.NewAuthHandler(authService),
			Users:              handlers.NewUserHandler(authService),
			Properties:         handlers.NewPropertyHandler(propertyService),
			PropertyTypes:      handlers.NewTaxonomyHandler(typeService),
			PropertyCategories: handlers.NewTaxonomyHandler(categoryService),
		}, tokenManager, rateLimit)
	})

	router.Get("/health", handlers.Health(db))
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	cleanupManager := background.NewCleanupManager(recoveryRepo, logger, cfg.Auth.CleanupInterval, cfg.Auth.PasswordRecoveryWindow)
	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	defer cleanupCancel()
	go cleanupManager.Start(cleanupCtx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		cleanupManager.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newMailService(ctx context.Context, cfg config.MailConfig, logger *slog.Logger) (services.MailService, error) {
	switch cfg.Driver {
	case config.MailDriverLog:
		logger.Warn("mail driver is log: messages are written to the log, not delivered")
		mailer, err := services.NewLogMailService(logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mail service: %w", err)
		}
		return mailer, nil
	default:
		mailer, err := services.NewSESMailService(ctx, cfg.Region, cfg.From, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mail service: %w", err)
		}
		return mailer, nil
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
