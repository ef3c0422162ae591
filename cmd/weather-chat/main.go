package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-chat/internal/api/http"
	"github.com/i474232898/weather-chat/internal/chat"
	"github.com/i474232898/weather-chat/internal/chat/llm"
	"github.com/i474232898/weather-chat/internal/config"
	"github.com/i474232898/weather-chat/internal/scheduler"
	"github.com/i474232898/weather-chat/internal/telemetry"
	"github.com/i474232898/weather-chat/internal/weather"
	"github.com/i474232898/weather-chat/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := telemetry.NewLogger(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		zlog.Fatal("failed to init tracing", zap.Error(err))
	}

	missing := cfg.MissingCredentials()
	if len(missing) > 0 {
		zlog.Warn("credentials missing; chat requests will fail until configured", zap.Strings("missing", missing))
	}

	// Shared HTTP client for outbound calls.
	httpClient := telemetry.NewHTTPClient(cfg.HTTPTimeout)

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	completer := llm.NewClient(llm.Config{
		Token:      cfg.LLMAPIKey,
		BaseURL:    cfg.LLMBaseURL,
		Model:      cfg.LLMModel,
		HTTPClient: httpClient,
	})

	chatSvc := chat.NewService(
		chat.NewClassifier(completer),
		provider,
		chat.WithMissingCredentials(missing...),
		chat.WithLogger(zlog.Named("chat")),
	)
	// The tile falls back to keyless Open-Meteo when OpenWeatherMap is not configured.
	var tileProvider weather.CoordinateProvider = provider
	if cfg.OpenWeatherAPIKey == "" {
		tileProvider = providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL)
	}
	localSvc := weather.NewLocalService(tileProvider, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey), zlog.Named("local"))

	// Provider probe feeding /health.
	probeInterval := cfg.ProbeInterval
	if cfg.OpenWeatherAPIKey == "" {
		probeInterval = 0
	}
	sched := scheduler.New(provider, cfg.ProbeCity, probeInterval, zlog.Named("scheduler"))
	if err := sched.Start(); err != nil {
		zlog.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-chat",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Options{
		Chat:           chatSvc,
		Local:          localSvc,
		Probe:          sched,
		Logger:         zlog.Named("http"),
		AllowedOrigins: cfg.AllowedOrigins,
		ChatRateLimit:  cfg.ChatRateLimit,
	})

	// Prebuilt chat surface, if any.
	if cfg.WebDir != "" {
		app.Static("/", cfg.WebDir)
	}

	go func() {
		zlog.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zlog.Error("error flushing traces", zap.Error(err))
	}
}
