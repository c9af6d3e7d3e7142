package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"happytummy/internal/config"
	"happytummy/internal/database"
	"happytummy/internal/handlers"
	"happytummy/internal/logging"
	"happytummy/internal/nutrition"
	"happytummy/internal/repository"
	"happytummy/internal/security"
	"happytummy/internal/service"
	"happytummy/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.OtelEnabled)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database connection established", "type", cfg.DatabaseType)

	if err := db.RunMigrations(ctx, cfg.MigrationsPath); err != nil {
		return err
	}
	slog.Info("migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	childRepo := repository.NewChildRepository(db)
	logRepo := repository.NewLogRepository(db)
	refRepo := repository.NewReferenceRepository(db)

	// Initialize services
	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		return err
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(userRepo, familyRepo, tokens, emailService)
	familyService := service.NewFamilyService(familyRepo, childRepo)
	logService := service.NewLogService(logRepo, familyService, emailService)
	insightService := service.NewInsightService(logRepo, refRepo, familyService)
	recommendationService := service.NewRecommendationService(logRepo, refRepo, familyService)

	resolver := newResolver(cfg, refRepo)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	loginLimit := security.NewRateLimiter(ctx, cfg.LoginRateLimit, time.Minute)

	router := &handlers.Router{
		Middleware:     handlers.NewMiddleware(authService, loginLimit),
		Auth:           handlers.NewAuthHandler(authService, familyService, oauthProviders, cfg.OAuthRedirectBaseURL, security.NewStateSigner(cfg.JWTSecret)),
		Children:       handlers.NewChildHandler(familyService, logService, insightService, recommendationService),
		Logs:           handlers.NewLogHandler(logService),
		Nutrition:      handlers.NewNutritionHandler(resolver, insightService),
		MCP:            handlers.NewMCPHandler(resolver, recommendationService),
		AllowedOrigins: cfg.AllowedOrigins(),
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", server.Addr, "remote_nutrition", resolver.RemoteEnabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newResolver builds the nutrition resolver; without a USDA key lookups stay local
func newResolver(cfg *config.Config, refRepo *repository.ReferenceRepository) *nutrition.Resolver {
	var remote nutrition.RemoteSource
	if cfg.RemoteNutritionEnabled() {
		remote = nutrition.NewUSDAClient(cfg.USDABaseURL, cfg.USDAAPIKey, &http.Client{Timeout: cfg.NutritionTimeout})
	} else {
		slog.Info("USDA_API_KEY not set, nutrition search is local-only")
	}

	return nutrition.NewInstrumentedResolver(
		service.NewReferenceFoodSource(refRepo),
		remote,
		nutrition.NewCache(cfg.NutritionCacheTTL),
		cfg.NutritionTimeout,
		otel.Tracer(nutrition.TracerName),
		otel.Meter(nutrition.TracerName),
	)
}
