// Package config loads the server configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort   = "5050"
	defaultDBName = "sample_training"
	devDBPrefix   = "dev_"
)

// Config is the server configuration.
type Config struct {
	Port   string
	DBURL  string
	DBName string
	// AuthSecret enables token authentication of write routes when set.
	AuthSecret string
	// RateLimit is the number of requests a client IP may make per minute.
	// Zero disables rate limiting.
	RateLimit int
	// RequestTimeout bounds the handling of a single request. Zero disables
	// the timeout.
	RequestTimeout time.Duration
}

// LoadEnvFile loads the provided .env files into the process environment,
// defaulting to ".env". Missing files are ignored and variables that are
// already set are not overridden.
func LoadEnvFile(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("godotenv.Load error: %w", err)
	}
	return nil
}

// Load reads the configuration from the environment. Set devMode to use the
// development database.
func Load(devMode bool) (*Config, error) {
	cfg := &Config{
		Port:       env("PORT", defaultPort),
		DBURL:      env("DB_URL", os.Getenv("ATLAS_URI")),
		DBName:     env("DB_NAME", defaultDBName),
		AuthSecret: os.Getenv("GRADES_AUTH_SECRET"),
	}

	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL environment variable is not set")
	}

	if devMode {
		cfg.DBName = devDBPrefix + cfg.DBName
	}

	if v := os.Getenv("RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: must be a non-negative integer", v)
		}
		cfg.RateLimit = limit
	}

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout < 0 {
			return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q: must be a non-negative duration", v)
		}
		cfg.RequestTimeout = timeout
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
