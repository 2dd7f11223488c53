package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"poulailler/internal/stats"
)

const (
	EnvFile             = ".env"
	defaultFetchTimeout = 10 * time.Second
	defaultStaticDir    = "static"
)

type Config struct {
	// StatsURL is the endpoint prefix; the granularity is appended to it.
	StatsURL           string
	FetchTimeout       time.Duration
	DefaultGranularity stats.Granularity
	LogLevel           log.Level
	// DisplayLocation is the zone labels and years are computed in. Nil keeps
	// the offset of each date.
	DisplayLocation *time.Location
	StaticDir       string
}

// Load reads envFile when it exists, then the process environment.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		log.Debug("No env file, using process environment", "file", envFile)
	}

	cfg := &Config{
		StatsURL:           os.Getenv("STATS_URL"),
		FetchTimeout:       defaultFetchTimeout,
		DefaultGranularity: stats.Year,
		LogLevel:           log.InfoLevel,
		StaticDir:          defaultStaticDir,
	}

	if cfg.StatsURL == "" {
		return nil, fmt.Errorf("missing required environment variable: STATS_URL")
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
		}
		cfg.FetchTimeout = d
	}

	if v := os.Getenv("DEFAULT_GRANULARITY"); v != "" {
		g, err := stats.ParseGranularity(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_GRANULARITY: %w", err)
		}
		cfg.DefaultGranularity = g
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if v := os.Getenv("DISPLAY_TZ"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPLAY_TZ: %w", err)
		}
		cfg.DisplayLocation = loc
	}

	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}

	return cfg, nil
}
