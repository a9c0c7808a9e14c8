package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gemini    GeminiConfig
	Analysis  AnalysisConfig
	Proxy     ProxyConfig
	Auth      AuthConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	TrustedProxies  []string      `mapstructure:"trusted_proxies"` // empty trusts no forwarding headers
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GeminiConfig holds the server-side provider credential used by the proxy endpoint
type GeminiConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerMinute int           `mapstructure:"rate_per_minute"`
}

// AnalysisConfig selects how analysis calls are routed
type AnalysisConfig struct {
	UseMockData bool          `mapstructure:"use_mock_data"`
	UseLocalAPI bool          `mapstructure:"use_local_api"`
	LocalAPIKey string        `mapstructure:"local_api_key"`
	MaxProducts int           `mapstructure:"max_products"`
	MockDelay   time.Duration `mapstructure:"mock_delay"`
}

// ProxyConfig holds the analysis proxy settings. Enabled mounts the proxy
// endpoint on this server; URL is where the pipeline sends proxied calls.
type ProxyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	Required     bool          `mapstructure:"required"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	UserInfoURL  string        `mapstructure:"userinfo_url"`
	TokenInfoURL string        `mapstructure:"tokeninfo_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// PerIP is requests per minute per client IP; 0 disables limiting
	PerIP int `mapstructure:"per_ip"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labelwise/")

	// LABELWISE_GEMINI_API_KEY -> gemini.api_key
	v.SetEnvPrefix("LABELWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	applyDerived(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default
// so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.endpoint", "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent")
	v.SetDefault("gemini.timeout", "60s")
	v.SetDefault("gemini.rate_per_minute", 15)

	v.SetDefault("analysis.use_mock_data", false)
	v.SetDefault("analysis.use_local_api", false)
	v.SetDefault("analysis.local_api_key", "")
	v.SetDefault("analysis.max_products", 5)
	v.SetDefault("analysis.mock_delay", "0s")

	v.SetDefault("proxy.enabled", true)
	v.SetDefault("proxy.url", "")
	v.SetDefault("proxy.timeout", "90s")

	v.SetDefault("auth.required", false)
	v.SetDefault("auth.cache_ttl", "5m")
	v.SetDefault("auth.userinfo_url", "https://www.googleapis.com/oauth2/v2/userinfo")
	v.SetDefault("auth.tokeninfo_url", "https://oauth2.googleapis.com/tokeninfo")
	v.SetDefault("auth.timeout", "10s")

	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("ratelimit.per_ip", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
}

// applyDerived fills values that depend on other settings
func applyDerived(config *Config) {
	if config.Proxy.URL == "" {
		// Loop back to this server's own proxy endpoint
		config.Proxy.URL = fmt.Sprintf("http://localhost:%s/functions/analyze-ingredients", config.Server.Port)
	}

	if config.Log.Format == "" {
		if config.IsProduction() {
			config.Log.Format = "json"
		} else {
			config.Log.Format = "console"
		}
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set LABELWISE_SERVER_PORT)")
	}

	if config.Analysis.MaxProducts < 2 {
		return fmt.Errorf("analysis.max_products must be at least 2 to allow comparisons, got: %d", config.Analysis.MaxProducts)
	}

	if config.Analysis.MockDelay < 0 {
		return fmt.Errorf("analysis.mock_delay must not be negative, got: %s", config.Analysis.MockDelay)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
