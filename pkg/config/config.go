// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	AutoMigrate bool
	JWTSecret   string

	LogLevel  string
	LogFormat string

	Database Database
}

type Database struct {
	URL             string
	Host            string
	User            string
	Password        string
	Name            string
	Port            string
	TimeZone        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// LoadEnvFile loads the given .env files into the process environment.
// Variables already set are not overridden.
func LoadEnvFile(files ...string) error {
	return godotenv.Load(files...)
}

// Load builds the configuration from environment variables.
func Load() Config {
	return Config{
		Port:        GetEnv("PORT", "3000"),
		Environment: GetEnv("ENVIRONMENT", "development"),
		AutoMigrate: GetBool("AUTO_MIGRATE", true),
		JWTSecret:   GetEnv("JWT_SECRET", ""),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		LogFormat:   GetEnv("LOG_FORMAT", "json"),
		Database: Database{
			URL:             GetEnv("DATABASE_URL", ""),
			Host:            GetEnv("DB_HOST", "localhost"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", ""),
			Name:            GetEnv("DB_NAME", "printshop"),
			Port:            GetEnv("DB_PORT", "5432"),
			TimeZone:        GetEnv("DB_TIMEZONE", "UTC"),
			MaxIdleConns:    GetInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
	}
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v, err := strconv.Atoi(GetEnv(key, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(GetEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(GetEnv(key, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}
