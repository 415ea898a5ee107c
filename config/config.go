/*
Package config loads server configuration from environment variables.

A .env file in the working directory is honored when present, so local
development does not need exported variables. Every knob has a sane
default; the server runs with zero configuration.
*/
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Config holds the runtime configuration for the workforce server.
type Config struct {
	Port         string
	DatabasePath string // empty selects the in-memory store
	LogLevel     string

	DefaultHourlyRate  decimal.Decimal
	MonthlyHourCeiling decimal.Decimal
	HoursPerDay        int
	CoverageNeeded     int
}

// Load reads configuration from the environment (and .env if present).
func Load() Config {
	// Missing .env is fine, env vars may be set directly.
	_ = godotenv.Load()

	return Config{
		Port:               getEnv("WORKFORCE_PORT", "8080"),
		DatabasePath:       getEnv("WORKFORCE_DB_PATH", ""),
		LogLevel:           getEnv("WORKFORCE_LOG_LEVEL", "info"),
		DefaultHourlyRate:  getEnvAsDecimal("WORKFORCE_DEFAULT_HOURLY_RATE", decimal.NewFromInt(25)),
		MonthlyHourCeiling: getEnvAsDecimal("WORKFORCE_MONTHLY_HOUR_CEILING", decimal.NewFromInt(80)),
		HoursPerDay:        getEnvAsInt("WORKFORCE_HOURS_PER_DAY", 8),
		CoverageNeeded:     getEnvAsInt("WORKFORCE_COVERAGE_NEEDED", 1),
	}
}

// ParseLogLevel maps the configured level onto logrus, defaulting to info.
func (c Config) ParseLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
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

func getEnvAsDecimal(name string, defaultVal decimal.Decimal) decimal.Decimal {
	valStr := getEnv(name, "")
	if val, err := decimal.NewFromString(valStr); err == nil {
		return val
	}
	return defaultVal
}
