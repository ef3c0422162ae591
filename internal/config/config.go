package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names for upstream credentials.
const (
	EnvLLMAPIKey         = "LOVABLE_API_KEY"
	EnvOpenWeatherAPIKey = "OPENWEATHER_API_KEY"
)

type AppConfig struct {
	Port string
	Env  string

	// Classifier gateway.
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenMeteoBaseURL   string

	// Optional; enables place names on the local weather tile.
	GeocoderAPIKey string

	// HTTPTimeout bounds outbound calls. Zero keeps the client default (none).
	HTTPTimeout time.Duration

	// Provider probe; zero interval disables it.
	ProbeInterval time.Duration
	ProbeCity     string

	ChatRateLimit int // requests per minute per IP (0 = unlimited)

	AllowedOrigins string
	WebDir         string

	OTLPEndpoint string
}

// Load reads configuration from environment with sensible defaults.
// Missing credentials are not an error here; see MissingCredentials.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Env = getenvDefault("APP_ENV", "production")

	cfg.LLMAPIKey = os.Getenv(EnvLLMAPIKey)
	cfg.LLMBaseURL = getenvDefault("LLM_BASE_URL", "https://ai.gateway.lovable.dev/v1")
	cfg.LLMModel = getenvDefault("LLM_MODEL", "google/gemini-2.5-flash")

	cfg.OpenWeatherAPIKey = os.Getenv(EnvOpenWeatherAPIKey)
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/weather")
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com/v1/forecast")
	cfg.GeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}

	// Probe interval: default 15 minutes.
	if cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	cfg.ProbeCity = getenvDefault("PROBE_CITY", "London")

	cfg.ChatRateLimit = getenvInt("CHAT_RATE_LIMIT", 0)
	if cfg.ChatRateLimit < 0 {
		return nil, fmt.Errorf("invalid CHAT_RATE_LIMIT: must not be negative")
	}

	cfg.AllowedOrigins = getenvDefault("CORS_ALLOWED_ORIGINS", "*")
	cfg.WebDir = os.Getenv("WEB_DIR")
	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	return cfg, nil
}

// MissingCredentials lists the required credential variables that are unset.
func (c *AppConfig) MissingCredentials() []string {
	var missing []string
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		missing = append(missing, EnvLLMAPIKey)
	}
	if strings.TrimSpace(c.OpenWeatherAPIKey) == "" {
		missing = append(missing, EnvOpenWeatherAPIKey)
	}
	return missing
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c *AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
