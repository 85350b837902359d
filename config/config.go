// Package config loads server configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Port the HTTP server listens on.
	Port int
	// DatabasePath is the SQLite file path, ":memory:" for ephemeral runs.
	DatabasePath string
	// Canton restricts which regional public holidays apply. Empty means
	// only nation-wide holidays.
	Canton string
	// LogLevel is a logrus level name (debug, info, warn, error).
	LogLevel string
}

// Load reads the configuration. A missing .env file is fine; real
// environment variables always win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not load .env file")
	}

	return &Config{
		Port:         getEnvAsInt("PORT", 8080),
		DatabasePath: getEnv("DATABASE_PATH", "./data/timekeeping.db"),
		Canton:       getEnv("CANTON", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}
