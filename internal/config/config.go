package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver          string
	DBDSN             string
	DBConnectAttempts int
	ServerPort        string
	LogMode           string
	GinMode           string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:   strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER"))),
		DBDSN:      os.Getenv("DB_DSN"),
		ServerPort: os.Getenv("SERVER_PORT"),
		LogMode:    os.Getenv("LOG_MODE"),
		GinMode:    os.Getenv("GIN_MODE"),
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = DriverPostgres
	}
	if cfg.DBDriver != DriverPostgres && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("DB_DRIVER %q is not supported (use %s or %s)", cfg.DBDriver, DriverPostgres, DriverSQLite)
	}
	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.LogMode == "" {
		cfg.LogMode = "dev"
	}

	cfg.DBConnectAttempts = 10
	if raw := os.Getenv("DB_CONNECT_ATTEMPTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("DB_CONNECT_ATTEMPTS must be a positive integer, got %q", raw)
		}
		cfg.DBConnectAttempts = n
	}

	return cfg, nil
}
