package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DatabasePath      string        `mapstructure:"database_path"`
	PredictionURL     string        `mapstructure:"prediction_url"`
	PredictionTimeout time.Duration `mapstructure:"prediction_timeout"`
	RedisURL          string        `mapstructure:"redis_url"` // empty disables event publishing
	HTTPPort          string        `mapstructure:"http_port"`
	AnalyticsSchedule string        `mapstructure:"analytics_schedule"`
	ShortlistLimit    int           `mapstructure:"shortlist_limit"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFormat         string        `mapstructure:"log_format"` // text or json
	FallbackSeed      int64         `mapstructure:"fallback_seed"`
}

// EnvPrefix prefixes environment overrides, e.g. LANDMATCH_REDIS_URL
const EnvPrefix = "LANDMATCH"

var AppConfig *Config

// Dir returns the directory holding the config file and default database
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".landmatch"
	}
	return filepath.Join(homeDir, ".landmatch")
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Initialize loads or creates the configuration file in the default location
func Initialize() error {
	return Load(GetConfigPath())
}

// Load reads configFile, creating it with defaults when missing. A .env
// file in the working directory and LANDMATCH_* variables override it.
func Load(configFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	setDefaults(filepath.Dir(configFile))

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	AppConfig = cfg
	return nil
}

func setDefaults(dir string) {
	viper.SetDefault("database_path", filepath.Join(dir, "landmatch.db"))
	viper.SetDefault("prediction_url", "http://localhost:5001/predict")
	viper.SetDefault("prediction_timeout", "5s")
	viper.SetDefault("redis_url", "")
	viper.SetDefault("http_port", ":8080")
	viper.SetDefault("analytics_schedule", "@every 1h")
	viper.SetDefault("shortlist_limit", 10)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("fallback_seed", 0)
}

// Validate rejects values the services cannot run with
func (c *Config) Validate() error {
	if c.ShortlistLimit < 0 {
		return fmt.Errorf("shortlist_limit must not be negative, got %d", c.ShortlistLimit)
	}
	if c.PredictionTimeout < 0 {
		return fmt.Errorf("prediction_timeout must not be negative, got %s", c.PredictionTimeout)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path string) error {
	defaultConfig := `# landmatch configuration
# Contractor prediction endpoint; on failure a local heuristic is used
prediction_url: http://localhost:5001/predict
prediction_timeout: 5s

# Redis for shortlist/selection events (leave empty to disable)
redis_url: ""

# HTTP API
http_port: ":8080"

# How often per-work-type success rates are recomputed by "serve"
analytics_schedule: "@every 1h"

# Default number of contractors kept on a shortlist (0 keeps all)
shortlist_limit: 10

# Logging: debug, info, warn, error / text, json
log_level: info
log_format: text
`
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// Keys lists every known configuration key
func Keys() []string {
	return []string{
		"database_path", "prediction_url", "prediction_timeout", "redis_url", "http_port",
		"analytics_schedule", "shortlist_limit", "log_level", "log_format", "fallback_seed",
	}
}
