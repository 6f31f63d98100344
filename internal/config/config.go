package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is passed explicitly to every component; there is no global
// settings singleton.
type Config struct {
	DatabaseURL    string
	HTTPListenAddr string
	// DMSOutputDir is where the generated Docker Mailserver config files go.
	// Usually a bind mount shared with the DMS container.
	DMSOutputDir   string
	LogLevel       string
	ServiceName    string
	SessionTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		HTTPListenAddr: getEnv("HTTP_LISTEN_ADDR", ":8090"),
		DMSOutputDir:   getEnv("DMS_OUTPUT_DIR", "data/dms"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceName:    getEnv("SERVICE_NAME", ""),
		SessionTimeout: getDurationEnv("SESSION_TIMEOUT_SECONDS", 86400*time.Second),
	}

	return cfg, nil
}

// Validate checks the fields the given role actually needs.
func (c *Config) Validate(role string) error {
	switch role {
	case "dockspace-api", "dmsctl":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", role)
		}
		if c.DMSOutputDir == "" {
			return fmt.Errorf("DMS_OUTPUT_DIR is required for %s", role)
		}
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
