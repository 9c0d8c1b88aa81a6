// Package config provides application configuration loaded from the environment.
package config

import "fmt"

// Config holds application configuration.
type Config struct {
	// Server holds HTTP server configuration.
	Server ServerConfig
	// Logger holds logger configuration.
	Logger LoggerConfig
	// Auth holds the administrator guard configuration.
	Auth AuthConfig
	// Engine holds tournament engine defaults.
	Engine EngineConfig
	// GinMode is the Gin framework mode (debug, release, test).
	GinMode string
	// MigrationsPath is the directory with SQL migrations.
	MigrationsPath string
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		Server:         LoadServerConfigFromEnv(),
		Logger:         LoadLoggerConfigFromEnv(),
		Auth:           LoadAuthConfigFromEnv(),
		Engine:         LoadEngineConfigFromEnv(),
		GinMode:        GetEnv("GIN_MODE", "release"),
		MigrationsPath: GetEnv("MIGRATIONS_PATH", "migrations"),
	}
}

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config validation failed: %w", err)
	}

	validGinModes := map[string]bool{
		"debug":   true,
		"release": true,
		"test":    true,
	}
	if !validGinModes[c.GinMode] {
		return fmt.Errorf("invalid GIN_MODE: %s (must be: debug, release, test)", c.GinMode)
	}

	return nil
}
