package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", EnvLLMAPIKey, EnvOpenWeatherAPIKey, "LLM_BASE_URL", "LLM_MODEL",
		"HTTP_TIMEOUT", "PROBE_INTERVAL", "PROBE_CITY", "CHAT_RATE_LIMIT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
	if cfg.LLMModel != "google/gemini-2.5-flash" {
		t.Errorf("unexpected default model %q", cfg.LLMModel)
	}
	if cfg.HTTPTimeout != 0 {
		t.Errorf("expected no outbound timeout by default, got %v", cfg.HTTPTimeout)
	}
	if cfg.ProbeInterval != 15*time.Minute {
		t.Errorf("unexpected probe interval %v", cfg.ProbeInterval)
	}
	if cfg.AllowedOrigins != "*" {
		t.Errorf("unexpected origins %q", cfg.AllowedOrigins)
	}
	if cfg.IsDevelopment() {
		t.Errorf("expected production by default")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"garbage timeout", "HTTP_TIMEOUT", "soon"},
		{"negative probe", "PROBE_INTERVAL", "-1m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestMissingCredentials(t *testing.T) {
	tests := []struct {
		name string
		cfg  AppConfig
		want []string
	}{
		{"both set", AppConfig{LLMAPIKey: "a", OpenWeatherAPIKey: "b"}, nil},
		{"llm missing", AppConfig{OpenWeatherAPIKey: "b"}, []string{EnvLLMAPIKey}},
		{"both missing", AppConfig{LLMAPIKey: "  "}, []string{EnvLLMAPIKey, EnvOpenWeatherAPIKey}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.MissingCredentials(); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      int
		expected int
	}{
		{"parses integer", "42", 10, 42},
		{"uses default for empty", "", 10, 10},
		{"uses default for non-numeric", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_CHAT_INT", tc.envValue)
			if got := getenvInt("TEST_CHAT_INT", tc.def); got != tc.expected {
				t.Errorf("expected %d, got %d", tc.expected, got)
			}
		})
	}
}
