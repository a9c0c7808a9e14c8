package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// configEnvVars lists every variable the tests touch so each case starts clean
var configEnvVars = []string{
	"LABELWISE_SERVER_PORT",
	"LABELWISE_SERVER_ENVIRONMENT",
	"LABELWISE_SERVER_TRUSTED_PROXIES",
	"LABELWISE_GEMINI_API_KEY",
	"LABELWISE_GEMINI_TIMEOUT",
	"LABELWISE_ANALYSIS_USE_MOCK_DATA",
	"LABELWISE_ANALYSIS_USE_LOCAL_API",
	"LABELWISE_ANALYSIS_LOCAL_API_KEY",
	"LABELWISE_ANALYSIS_MAX_PRODUCTS",
	"LABELWISE_ANALYSIS_MOCK_DELAY",
	"LABELWISE_PROXY_URL",
	"LABELWISE_AUTH_REQUIRED",
	"LABELWISE_CACHE_TTL",
	"LABELWISE_RATELIMIT_PER_IP",
	"LABELWISE_LOG_LEVEL",
	"LABELWISE_LOG_FORMAT",
}

func cleanupEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.TrustedProxies) != 0 {
			t.Errorf("Server.TrustedProxies = %v, want none", cfg.Server.TrustedProxies)
		}
		if cfg.Gemini.Timeout != 60*time.Second {
			t.Errorf("Gemini.Timeout = %v, want 60s", cfg.Gemini.Timeout)
		}
		if !strings.HasSuffix(cfg.Gemini.Endpoint, ":generateContent") {
			t.Errorf("Gemini.Endpoint = %s, want generateContent URL", cfg.Gemini.Endpoint)
		}
		if cfg.Analysis.UseMockData || cfg.Analysis.UseLocalAPI {
			t.Errorf("Analysis flags = %+v, want both false", cfg.Analysis)
		}
		if cfg.Analysis.MaxProducts != 5 {
			t.Errorf("Analysis.MaxProducts = %d, want 5", cfg.Analysis.MaxProducts)
		}
		if !cfg.Proxy.Enabled {
			t.Error("Proxy.Enabled = false, want true")
		}
		if cfg.Proxy.URL != "http://localhost:8080/functions/analyze-ingredients" {
			t.Errorf("Proxy.URL = %s, want loopback endpoint", cfg.Proxy.URL)
		}
		if cfg.Auth.Required {
			t.Error("Auth.Required = true, want false")
		}
		if cfg.Auth.CacheTTL != 5*time.Minute {
			t.Errorf("Auth.CacheTTL = %v, want 5m", cfg.Auth.CacheTTL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
			t.Errorf("Log = %+v, want info/console", cfg.Log)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv(t)
		t.Setenv("LABELWISE_SERVER_PORT", "9090")
		t.Setenv("LABELWISE_SERVER_ENVIRONMENT", "production")
		t.Setenv("LABELWISE_GEMINI_API_KEY", "server-key")
		t.Setenv("LABELWISE_GEMINI_TIMEOUT", "15s")
		t.Setenv("LABELWISE_ANALYSIS_USE_LOCAL_API", "true")
		t.Setenv("LABELWISE_ANALYSIS_LOCAL_API_KEY", "local-key")
		t.Setenv("LABELWISE_ANALYSIS_MAX_PRODUCTS", "8")
		t.Setenv("LABELWISE_ANALYSIS_MOCK_DELAY", "1500ms")
		t.Setenv("LABELWISE_PROXY_URL", "https://labels.example.com/functions/analyze-ingredients")
		t.Setenv("LABELWISE_AUTH_REQUIRED", "true")
		t.Setenv("LABELWISE_CACHE_TTL", "24h")
		t.Setenv("LABELWISE_RATELIMIT_PER_IP", "200")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if !cfg.IsProduction() {
			t.Errorf("IsProduction() = false for environment %s", cfg.Server.Environment)
		}
		if cfg.Gemini.APIKey != "server-key" {
			t.Errorf("Gemini.APIKey = %s, want server-key", cfg.Gemini.APIKey)
		}
		if cfg.Gemini.Timeout != 15*time.Second {
			t.Errorf("Gemini.Timeout = %v, want 15s", cfg.Gemini.Timeout)
		}
		if !cfg.Analysis.UseLocalAPI || cfg.Analysis.LocalAPIKey != "local-key" {
			t.Errorf("Analysis = %+v, want local API with key", cfg.Analysis)
		}
		if cfg.Analysis.MaxProducts != 8 {
			t.Errorf("Analysis.MaxProducts = %d, want 8", cfg.Analysis.MaxProducts)
		}
		if cfg.Analysis.MockDelay != 1500*time.Millisecond {
			t.Errorf("Analysis.MockDelay = %v, want 1.5s", cfg.Analysis.MockDelay)
		}
		if cfg.Proxy.URL != "https://labels.example.com/functions/analyze-ingredients" {
			t.Errorf("Proxy.URL = %s", cfg.Proxy.URL)
		}
		if !cfg.Auth.Required {
			t.Error("Auth.Required = false, want true")
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Format != "json" {
			t.Errorf("Log.Format = %s, want json in production", cfg.Log.Format)
		}
	})

	t.Run("fails validation when max products is below two", func(t *testing.T) {
		cleanupEnv(t)
		t.Setenv("LABELWISE_ANALYSIS_MAX_PRODUCTS", "1")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "max_products") {
			t.Errorf("Load() error = %v, want max_products error", err)
		}
	})

	t.Run("fails validation for unknown log level", func(t *testing.T) {
		cleanupEnv(t)
		t.Setenv("LABELWISE_LOG_LEVEL", "verbose")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid log level")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Analysis: AnalysisConfig{MaxProducts: 5},
			Log:      LogConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"negative mock delay", func(c *Config) { c.Analysis.MockDelay = -time.Second }, true},
		{"negative rate limit", func(c *Config) { c.RateLimit.PerIP = -1 }, true},
		{"rate limit disabled", func(c *Config) { c.RateLimit.PerIP = 0 }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"local API without key is allowed", func(c *Config) { c.Analysis.UseLocalAPI = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		t.Chdir(t.TempDir())

		if err := LoadEnvFile(); err != nil {
			t.Errorf("LoadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables without overriding existing ones", func(t *testing.T) {
		t.Chdir(t.TempDir())

		envContent := `
# Comment line
LABELWISE_TEST_VAR=value1
LABELWISE_TEST_OVERRIDE=new-value
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		t.Setenv("LABELWISE_TEST_VAR", "")
		os.Unsetenv("LABELWISE_TEST_VAR")
		t.Setenv("LABELWISE_TEST_OVERRIDE", "existing-value")

		if err := LoadEnvFile(); err != nil {
			t.Fatalf("LoadEnvFile() error = %v, want nil", err)
		}

		if got := os.Getenv("LABELWISE_TEST_VAR"); got != "value1" {
			t.Errorf("LABELWISE_TEST_VAR = %s, want value1", got)
		}
		if got := os.Getenv("LABELWISE_TEST_OVERRIDE"); got != "existing-value" {
			t.Errorf("LABELWISE_TEST_OVERRIDE = %s, want existing-value", got)
		}
	})
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			logger, err := NewLogger(LogConfig{Level: "debug", Format: format})
			if err != nil {
				t.Fatalf("NewLogger() error = %v", err)
			}
			if !logger.Core().Enabled(-1) {
				t.Error("debug level not enabled")
			}
		})
	}

	if _, err := NewLogger(LogConfig{Level: "loud"}); err == nil {
		t.Error("NewLogger() error = nil, want error for invalid level")
	}
}
