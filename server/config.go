package server

import (
	"os"
	"strconv"
)

// Config is the service configuration, read from the environment.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// Seed is the root seed for the per-request sample streams.
	Seed int64
	// TuningPath optionally points at a JSON model-tuning file.
	TuningPath string
}

// LoadConfig reads the configuration from THERMCAST_* environment
// variables, falling back to defaults that match the reference deployment.
func LoadConfig() Config {
	return Config{
		Addr:       getEnv("THERMCAST_ADDR", ":5001"),
		LogLevel:   getEnv("THERMCAST_LOG_LEVEL", "info"),
		Seed:       getEnvInt64("THERMCAST_SEED", 42),
		TuningPath: getEnv("THERMCAST_TUNING", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
