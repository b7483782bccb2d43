// internal/config/config.go
//
// Process configuration from the environment (optionally a .env file).
// Every value has a default so `mathflash serve` runs with no setup.

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string
	DBPath   string

	// player cookie
	JWTSecret    string
	ClientOrigin string
	Production   bool // APP_ENV=production: Secure + SameSite=None cookies

	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration
	HandoffTTL         time.Duration
	ShutdownTimeout    time.Duration
}

// Load reads .env if present and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() (*Config, error) {
	c := &Config{
		Port:         getenvDefault("PORT", "5175"),
		LogLevel:     getenvDefault("LOG_LEVEL", "info"),
		DBPath:       getenvDefault("DB_PATH", "data/mathflash.db"),
		JWTSecret:    getenvDefault("JWT_SECRET", "dev-secret-change-me"),
		ClientOrigin: getenvDefault("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("APP_ENV") == "production",
	}

	var err error
	if c.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if c.SweepInterval, err = getDuration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if c.HandoffTTL, err = getDuration("HANDOFF_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if c.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if c.Production && c.JWTSecret == "dev-secret-change-me" {
		return nil, fmt.Errorf("config: JWT_SECRET must be set when APP_ENV=production")
	}
	return c, nil
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a valid duration: %w", k, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", k, v)
	}
	return d, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}
