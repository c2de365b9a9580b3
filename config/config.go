package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Log           LogConfig
	USDA          USDAConfig
	OpenFoodFacts OpenFoodFactsConfig
	Advisory      AdvisoryConfig
	Cache         CacheConfig
	History       HistoryConfig
	RateLimit     RateLimitConfig
	Analysis      AnalysisConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// USDAConfig holds USDA API configuration. An empty API key disables the source.
type USDAConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenFoodFactsConfig holds Open Food Facts configuration
type OpenFoodFactsConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AdvisoryConfig holds the optional health-hint advisor configuration
type AdvisoryConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // "memory" or "none"
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// HistoryConfig holds the analysis history store configuration
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP    int `mapstructure:"per_ip"`
	Burst    int `mapstructure:"burst"`
	Upstream int `mapstructure:"upstream"`
}

// AnalysisConfig holds analysis pipeline configuration
type AnalysisConfig struct {
	BatchWorkers int `mapstructure:"batch_workers"`
	MaxBatchSize int `mapstructure:"max_batch_size"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodscore/")

	v.SetEnvPrefix("FOODSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports variables from ./.env that are not already set.
// A missing file is not an error.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return gotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.timeout", "30s")

	v.SetDefault("openfoodfacts.enabled", true)
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "FoodScore/1.0")
	v.SetDefault("openfoodfacts.timeout", "10s")

	v.SetDefault("advisory.enabled", false)
	v.SetDefault("advisory.base_url", "")
	v.SetDefault("advisory.api_key", "")
	v.SetDefault("advisory.timeout", "5s")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "720h") // 30 days
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "foodscore.db")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.upstream", 60)

	v.SetDefault("analysis.batch_workers", 4)
	v.SetDefault("analysis.max_batch_size", 50)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" && !config.OpenFoodFacts.Enabled {
		return fmt.Errorf("no product source configured (set FOODSCORE_USDA_API_KEY or enable openfoodfacts)")
	}

	if config.USDA.APIKey != "" && config.USDA.BaseURL == "" {
		return fmt.Errorf("USDA base URL is required when an API key is set")
	}

	if config.OpenFoodFacts.Enabled && config.OpenFoodFacts.BaseURL == "" {
		return fmt.Errorf("Open Food Facts base URL is required when the source is enabled")
	}

	if config.Advisory.Enabled && config.Advisory.BaseURL == "" {
		return fmt.Errorf("advisory base URL is required when advisory is enabled (set FOODSCORE_ADVISORY_BASE_URL)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.History.Enabled && config.History.Path == "" {
		return fmt.Errorf("history path is required when history is enabled")
	}

	if _, err := log.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level %q: %w", config.Log.Level, err)
	}

	if config.Log.Format != "json" && config.Log.Format != "text" {
		return fmt.Errorf("log format must be 'json' or 'text', got: %s", config.Log.Format)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Upstream < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	if config.Analysis.BatchWorkers <= 0 {
		return fmt.Errorf("analysis batch_workers must be positive, got: %d", config.Analysis.BatchWorkers)
	}

	if config.Analysis.MaxBatchSize <= 0 {
		return fmt.Errorf("analysis max_batch_size must be positive, got: %d", config.Analysis.MaxBatchSize)
	}

	return nil
}

// IsProduction reports whether the server runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
