package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RawDir        string
	ProcessedPath string

	// BaseYear is the reporting year of the single-year source dataset.
	BaseYear int
	// StartYear..EndYear (inclusive) is the simulated series range.
	StartYear int
	EndYear   int
	// Seed drives the synthetic year expansion. A negative value opts into
	// time-seeded, non-reproducible runs.
	Seed int64

	// HTTPAddr enables the health/metrics server when non-empty. A one-shot
	// batch job normally runs without it.
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("RAW_DIR", "data/raw")
	v.SetDefault("PROCESSED_PATH", "data/processed/processed_data.csv")
	v.SetDefault("BASE_YEAR", 2024)
	v.SetDefault("START_YEAR", 2000)
	v.SetDefault("END_YEAR", 2024)
	v.SetDefault("SIM_SEED", 1)
	v.SetDefault("HTTP_ADDR", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	cfg := &Config{
		RawDir:          v.GetString("RAW_DIR"),
		ProcessedPath:   v.GetString("PROCESSED_PATH"),
		BaseYear:        v.GetInt("BASE_YEAR"),
		StartYear:       v.GetInt("START_YEAR"),
		EndYear:         v.GetInt("END_YEAR"),
		Seed:            v.GetInt64("SIM_SEED"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.RawDir == "" {
		return nil, errors.New("RAW_DIR is required")
	}
	if cfg.ProcessedPath == "" {
		return nil, errors.New("PROCESSED_PATH is required")
	}
	if cfg.StartYear > cfg.EndYear {
		return nil, errors.New("START_YEAR must not exceed END_YEAR")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}

	return cfg, nil
}
