package config

import "fmt"

// EngineConfig holds defaults of the tournament engine.
type EngineConfig struct {
	// DefaultIntervalMinutes is used between generated matches when a
	// request does not carry its own interval.
	DefaultIntervalMinutes int
}

// LoadEngineConfigFromEnv loads engine configuration from environment variables.
func LoadEngineConfigFromEnv() EngineConfig {
	return EngineConfig{
		DefaultIntervalMinutes: GetEnvInt("ENGINE_DEFAULT_INTERVAL_MINUTES", 60),
	}
}

// Validate validates engine configuration.
func (c EngineConfig) Validate() error {
	if c.DefaultIntervalMinutes < 0 {
		return fmt.Errorf("ENGINE_DEFAULT_INTERVAL_MINUTES must be non-negative, got %d", c.DefaultIntervalMinutes)
	}
	return nil
}
