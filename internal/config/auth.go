package config

import "fmt"

// AuthConfig holds settings of the administrator guard on write routes.
type AuthConfig struct {
	// Enabled turns the guard on. Local development may switch it off.
	Enabled bool
	// JWTSecret is the HMAC key used to verify bearer tokens.
	JWTSecret string
}

// LoadAuthConfigFromEnv loads auth configuration from environment variables.
func LoadAuthConfigFromEnv() AuthConfig {
	return AuthConfig{
		Enabled:   GetEnvBool("AUTH_ENABLED", true),
		JWTSecret: GetEnv("AUTH_JWT_SECRET", ""),
	}
}

// Validate validates auth configuration.
func (c AuthConfig) Validate() error {
	if c.Enabled && c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required when AUTH_ENABLED is true")
	}
	return nil
}
