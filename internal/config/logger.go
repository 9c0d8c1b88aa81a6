package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	// Level is a zap level name (debug, info, warn, error).
	Level string
	// Format is json or console.
	Format string
	// Output is stdout, stderr or a file path.
	Output string
}

// LoadLoggerConfigFromEnv loads logger configuration from environment variables.
func LoadLoggerConfigFromEnv() LoggerConfig {
	return LoggerConfig{
		Level:  GetEnv("LOG_LEVEL", "info"),
		Format: GetEnv("LOG_FORMAT", "json"),
		Output: GetEnv("LOG_OUTPUT", "stdout"),
	}
}

// ZapLevel returns the parsed level.
func (c LoggerConfig) ZapLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel, err
	}
	if level > zapcore.ErrorLevel {
		return zapcore.InfoLevel, fmt.Errorf("log level %q would hide errors", c.Level)
	}
	return level, nil
}

// Validate validates logger configuration.
func (c LoggerConfig) Validate() error {
	if _, err := c.ZapLevel(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be: json, console)", c.Format)
	}
	return nil
}

// IsProduction reports whether the production zap preset applies.
func (c LoggerConfig) IsProduction() bool {
	return c.Format == "json" && c.Level != "debug"
}
