package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// TokenLifetime is how long an issued bearer token stays valid.
const TokenLifetime = 7 * 24 * time.Hour

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")
	ErrUnknownDriver    = errors.New("DB_DRIVER must be mysql or sqlite")
	ErrMemoryDBInProd   = errors.New("in-memory sqlite database is not allowed in production")
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port        string
	Env         string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	LogLevel    slog.Level
}

// Load reads configuration from the environment. A missing signing key is
// reported as an error so the process can refuse to start.
func Load() (Config, error) {
	cfg := Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		DBDriver:  strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: TokenLifetime,
		LogLevel:  parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	switch cfg.DBDriver {
	case DriverMySQL:
		cfg.DatabaseDSN = getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/cardiolog?parseTime=true")
	case DriverSQLite:
		cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:cardiolog.db?_pragma=foreign_keys(1)")
	default:
		return Config{}, fmt.Errorf("%w: got %q", ErrUnknownDriver, cfg.DBDriver)
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if cfg.IsProduction() && cfg.DBDriver == DriverSQLite && strings.Contains(cfg.DatabaseDSN, ":memory:") {
		return Config{}, ErrMemoryDBInProd
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
