// Package config loads the server configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// Values come from defaults, then an optional splitpay.env file, then
// environment variables. A .env file in the working directory is loaded into
// the environment first.
type Config struct {
	ServerAddress   string        `mapstructure:"SERVER_ADDRESS"`
	DBPath          string        `mapstructure:"DB_PATH"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	TokenDuration   time.Duration `mapstructure:"TOKEN_DURATION"`
	MetricsEnabled  bool          `mapstructure:"METRICS_ENABLED"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// DevJWTSecret is the default signing secret. Fine for local use only.
const DevJWTSecret = "splitpay-dev-secret-change-me"

var defaults = map[string]any{
	"SERVER_ADDRESS":   ":8080",
	"DB_PATH":          "./data/splitpay.db",
	"LOG_LEVEL":        "info",
	"JWT_SECRET":       DevJWTSecret,
	"TOKEN_DURATION":   "24h",
	"METRICS_ENABLED":  true,
	"SHUTDOWN_TIMEOUT": "10s",
}

// Load reads configuration from path/splitpay.env (if present) and the environment.
func Load(path string) (Config, error) {
	var c Config

	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(path)
	v.SetConfigName("splitpay")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}

	return c, c.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if c.ServerAddress == "" {
		problems = append(problems, "SERVER_ADDRESS cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid LOG_LEVEL %q: must be debug, info, warn or error", c.LogLevel))
	}
	if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}
	if c.TokenDuration < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid TOKEN_DURATION %v: must be at least 1 minute", c.TokenDuration))
	}
	if c.ShutdownTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid SHUTDOWN_TIMEOUT %v: must be positive", c.ShutdownTimeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
