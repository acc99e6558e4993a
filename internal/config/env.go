package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/rs/zerolog"
)

// EnvString returns the variable or def when it is unset or empty.
func EnvString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// EnvInt returns the variable parsed as an int, or def when unset or malformed.
func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// EnvBool returns the variable parsed as a bool, or def when unset or malformed.
func EnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// EnvDuration returns the variable parsed with time.ParseDuration, or def.
func EnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

// SessionConfig selects where in-progress drafts are kept.
type SessionConfig struct {
	// RedisURL switches drafts to redis when set; memory otherwise.
	RedisURL        string
	TTL             time.Duration
	CleanupInterval time.Duration
}

// NewSessionConfig reads REDIS_URL, DRAFT_TTL (default 2h) and
// DRAFT_CLEANUP_INTERVAL (default 5m).
func NewSessionConfig() (*SessionConfig, error) {
	ttl, err := parseDurationVar("DRAFT_TTL", session.DefaultTTL)
	if err != nil {
		return nil, err
	}
	cleanup, err := parseDurationVar("DRAFT_CLEANUP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	config := &SessionConfig{
		RedisURL:        EnvString("REDIS_URL", ""),
		TTL:             ttl,
		CleanupInterval: cleanup,
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// UseRedis reports whether drafts go to redis.
func (c *SessionConfig) UseRedis() bool {
	return c.RedisURL != ""
}

func (c *SessionConfig) normalize() error {
	if c.TTL < time.Minute {
		return fmt.Errorf("DRAFT_TTL must be at least 1m, got: %s", c.TTL)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("DRAFT_CLEANUP_INTERVAL must be positive, got: %s", c.CleanupInterval)
	}
	return nil
}

// ExportConfig bounds PDF exports.
type ExportConfig struct {
	MaxConcurrent int
	Timeout       time.Duration
	ChromePath    string
}

// NewExportConfig reads EXPORT_MAX_CONCURRENT (default 2), EXPORT_TIMEOUT
// (default 30s) and CHROME_PATH.
func NewExportConfig() (*ExportConfig, error) {
	def := rendering.DefaultPDFOptions()

	maxStr := EnvString("EXPORT_MAX_CONCURRENT", strconv.FormatInt(def.MaxConcurrent, 10))
	maxConcurrent, err := strconv.Atoi(maxStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_MAX_CONCURRENT: %v", err)
	}
	timeout, err := parseDurationVar("EXPORT_TIMEOUT", def.Timeout)
	if err != nil {
		return nil, err
	}

	config := &ExportConfig{
		MaxConcurrent: maxConcurrent,
		Timeout:       timeout,
		ChromePath:    EnvString("CHROME_PATH", ""),
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ExportConfig) normalize() error {
	if c.MaxConcurrent < 1 || c.MaxConcurrent > 16 {
		return fmt.Errorf("EXPORT_MAX_CONCURRENT out of range: %d (must be 1-16)", c.MaxConcurrent)
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("EXPORT_TIMEOUT must be at least 1s, got: %s", c.Timeout)
	}
	return nil
}

// PDFOptions converts the config for the renderer.
func (c *ExportConfig) PDFOptions() rendering.PDFOptions {
	return rendering.PDFOptions{
		MaxConcurrent: int64(c.MaxConcurrent),
		Timeout:       c.Timeout,
		ExecPath:      c.ChromePath,
	}
}

// Log output formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// LogConfig controls zerolog output.
type LogConfig struct {
	Level  zerolog.Level
	Format string
}

// NewLogConfig reads LOG_LEVEL (default info) and LOG_FORMAT (json or console).
func NewLogConfig() (*LogConfig, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(EnvString("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %v", err)
	}

	config := &LogConfig{
		Level:  level,
		Format: strings.ToLower(EnvString("LOG_FORMAT", LogFormatJSON)),
	}
	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *LogConfig) normalize() error {
	if c.Format != LogFormatJSON && c.Format != LogFormatConsole {
		return fmt.Errorf("LOG_FORMAT must be %q or %q, got: %q", LogFormatJSON, LogFormatConsole, c.Format)
	}
	return nil
}

func parseDurationVar(key string, def time.Duration) (time.Duration, error) {
	v := EnvString(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}
