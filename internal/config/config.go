// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

func numCPU() int {
	return runtime.NumCPU()
}

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Storage settings: where uploaded files, intermediate artifacts, and
	// results live while a job is in flight.
	TempDir string `env:"TEMP_DIR, default=/tmp/mediajobs" json:"temp_dir"`
	BinDir  string `env:"BIN_DIR" json:"bin_dir,omitempty"`

	// Worker pool / concurrency settings
	WorkerPoolSize int `env:"WORKER_POOL_SIZE" json:"worker_pool_size"`

	// Reaper settings
	ReaperIntervalSec int `env:"REAPER_INTERVAL_SEC, default=600" json:"reaper_interval_sec"`
	JobExpirySec      int `env:"JOB_EXPIRY_SEC, default=3600" json:"job_expiry_sec"`

	// HTTP surface settings
	SSEHeartbeatSec int   `env:"SSE_HEARTBEAT_SEC, default=60" json:"sse_heartbeat_sec"`
	MaxUploadBytes  int64 `env:"MAX_UPLOAD_BYTES, default=536870912" json:"max_upload_bytes"`

	// Submission rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS, default=5" json:"rate_limit_rps"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST, default=10" json:"rate_limit_burst"`

	// Optional S3 settings: when set, completed results are additionally
	// archived to S3 after a job finishes. Never required.
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 archival configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// EffectiveWorkerPoolSize returns WorkerPoolSize, or max(2, NumCPU/2) when
// unset.
func (c *Config) EffectiveWorkerPoolSize() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	n := numCPU() / 2
	if n < 2 {
		n = 2
	}
	return n
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks internal consistency of loaded configuration.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	if c.TempDir == "" {
		return fmt.Errorf("config: TEMP_DIR must not be empty")
	}
	if c.ReaperIntervalSec <= 0 {
		return fmt.Errorf("config: REAPER_INTERVAL_SEC must be positive")
	}
	if c.JobExpirySec <= 0 {
		return fmt.Errorf("config: JOB_EXPIRY_SEC must be positive")
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

// String returns a string representation of the config with sensitive
// values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, TempDir: %s, BinDir: %s, WorkerPoolSize: %d, ReaperIntervalSec: %d, JobExpirySec: %d, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.TempDir,
		c.BinDir,
		c.EffectiveWorkerPoolSize(),
		c.ReaperIntervalSec,
		c.JobExpirySec,
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
