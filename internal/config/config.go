// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/promoforge/videochain-api/internal/poller"
)

// Static errors for configuration validation.
var (
	// ErrRunwayAPIKeyRequired is returned when RUNWAY_API_KEY is not set.
	ErrRunwayAPIKeyRequired = errors.New("config: RUNWAY_API_KEY is required")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Provider credentials. Runway serves both the short-form and the
	// extended tier and is always required; Luma joins the short-form
	// fallback list only when its key is set; HeyGen is needed for avatar
	// requests.
	RunwayAPIKey string `env:"RUNWAY_API_KEY, required" json:"-"` // Masked in JSON
	LumaAPIKey   string `env:"LUMA_API_KEY" json:"-"`             // Masked in JSON
	HeyGenAPIKey string `env:"HEYGEN_API_KEY" json:"-"`           // Masked in JSON

	// DefaultAvatarID selects the HeyGen presenter for avatar requests.
	DefaultAvatarID string `env:"DEFAULT_AVATAR_ID" json:"default_avatar_id,omitempty"`

	// Script generation (optional; avatar auto-scripting is disabled when
	// neither key is set).
	GeminiAPIKey string `env:"GEMINI_API_KEY" json:"-"` // Masked in JSON
	OpenAIAPIKey string `env:"OPENAI_API_KEY" json:"-"` // Masked in JSON

	// Poll budgets per provider tier.
	ShortFormPollIntervalSec int `env:"SHORTFORM_POLL_INTERVAL_SEC, default=10" json:"shortform_poll_interval_sec"`
	ShortFormPollMaxAttempts int `env:"SHORTFORM_POLL_MAX_ATTEMPTS, default=60" json:"shortform_poll_max_attempts"`
	AvatarPollIntervalSec    int `env:"AVATAR_POLL_INTERVAL_SEC, default=5" json:"avatar_poll_interval_sec"`
	AvatarPollMaxAttempts    int `env:"AVATAR_POLL_MAX_ATTEMPTS, default=60" json:"avatar_poll_max_attempts"`
	ExtendedPollIntervalSec  int `env:"EXTENDED_POLL_INTERVAL_SEC, default=15" json:"extended_poll_interval_sec"`
	ExtendedPollMaxAttempts  int `env:"EXTENDED_POLL_MAX_ATTEMPTS, default=60" json:"extended_poll_max_attempts"`

	// Storage settings
	StageDir string `env:"STAGE_DIR, default=/tmp/videochain" json:"stage_dir"`

	// Optional S3 settings for artifact hosting
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// ShortFormBudget returns the poll budget for the short-form tier.
func (c *Config) ShortFormBudget() poller.Budget {
	return poller.Budget{
		Interval:    time.Duration(c.ShortFormPollIntervalSec) * time.Second,
		MaxAttempts: c.ShortFormPollMaxAttempts,
	}
}

// AvatarBudget returns the poll budget for the avatar tier.
func (c *Config) AvatarBudget() poller.Budget {
	return poller.Budget{
		Interval:    time.Duration(c.AvatarPollIntervalSec) * time.Second,
		MaxAttempts: c.AvatarPollMaxAttempts,
	}
}

// ExtendedBudget returns the poll budget for the extended-duration tier.
func (c *Config) ExtendedBudget() poller.Budget {
	return poller.Budget{
		Interval:    time.Duration(c.ExtendedPollIntervalSec) * time.Second,
		MaxAttempts: c.ExtendedPollMaxAttempts,
	}
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		if strings.Contains(err.Error(), "RUNWAY_API_KEY") {
			return nil, ErrRunwayAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.RunwayAPIKey == "" {
		return ErrRunwayAPIKeyRequired
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, StageDir: %s, LumaEnabled: %t, HeyGenEnabled: %t, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.StageDir,
		c.LumaAPIKey != "",
		c.HeyGenAPIKey != "",
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
