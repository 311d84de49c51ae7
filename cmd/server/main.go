package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/ytakahashi/agenda-api/internal/auth"
	"github.com/ytakahashi/agenda-api/internal/config"
	"github.com/ytakahashi/agenda-api/internal/datetime"
	"github.com/ytakahashi/agenda-api/internal/handlers"
	"github.com/ytakahashi/agenda-api/internal/logging"
	"github.com/ytakahashi/agenda-api/internal/middleware"
	"github.com/ytakahashi/agenda-api/internal/models"
	"github.com/ytakahashi/agenda-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	norm, err := datetime.LoadNormalizer(cfg.Timezone)
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			logger.Fatal("Failed to initialize Sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		store     services.DocumentStore
		firestore handlers.Pinger
	)
	switch cfg.Store {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on restart")
		store = services.NewMemoryStore()
	default:
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		firestoreService, err := services.NewFirestoreService(ctx, cfg.ProjectID, opts...)
		if err != nil {
			logger.Fatal("Failed to create Firestore service", zap.Error(err))
		}
		defer firestoreService.Close()
		store = firestoreService
		firestore = firestoreService.Ping
	}

	if cfg.RESTProbeEnabled() {
		tokens := services.NewTokenHolder(cfg.FirebaseAccessToken, services.NewOAuthRefresher(
			cfg.FirebaseClientID, cfg.FirebaseClientSecret, cfg.FirebaseRefreshToken, google.Endpoint))
		rest := services.NewFirestoreREST("", cfg.ProjectID, tokens, nil, logger)

		probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := rest.Ping(probeCtx, models.UsersCollection); err != nil {
			logger.Warn("Firestore REST probe failed", zap.Error(err))
		} else {
			logger.Info("Firestore REST probe succeeded")
		}
		cancel()

		clientPing := firestore
		firestore = func(ctx context.Context) error {
			if err := clientPing(ctx); err != nil {
				return err
			}
			return rest.Ping(ctx, models.UsersCollection)
		}
	}

	mailer := services.NewSMTPMailer(services.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	sessions := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	authService := services.NewAuthService(store, services.NewBcryptHasher(0), mailer, sessions, logger)
	taskService := services.NewTaskService(store, norm, logger)
	reminderService := services.NewReminderService(store, norm, logger)

	ipExtractor, err := middleware.ClientIP(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = ipExtractor
	e.Validator = handlers.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.SecureHeaders())
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	handlers.RegisterRoutes(e, handlers.Handlers{
		Auth:      handlers.NewAuthHandler(authService, logger),
		Tasks:     handlers.NewTaskHandler(taskService, norm, logger),
		Reminders: handlers.NewReminderHandler(reminderService, norm, logger),
		Health:    handlers.NewHealthHandler(firestore, logger),
	}, middleware.AuthRateLimit(rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst, 10*time.Minute))

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
