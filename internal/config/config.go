// Package config resolves the job configuration from command-line flags and
// environment variables. Flags cover the per-run surface (paths, output
// style, API key); the environment covers operational tuning.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all job settings.
type Config struct {
	InputPath  string
	OutputPath string
	Pretty     bool
	FxAPIKey   string // currencylayer access key; empty disables the primary provider

	HTTPTimeout      time.Duration
	Workers          int
	BreakerThreshold uint32 // consecutive failures before a provider circuit opens; 0 disables

	LogLevel  string
	LogFormat string

	MetricsAddr string // empty disables the metrics HTTP server

	// Endpoint overrides, for tests and offline fixture runs. Empty selects
	// the production endpoints.
	GeocodingURL     string
	ForecastURL      string
	CurrencylayerURL string
	ExchangerateURL  string
}

// Load parses args (without the program name) and reads environment
// variables, applying defaults where unset. A .env file in the working
// directory is honored when present.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	fs := flag.NewFlagSet("enricher", flag.ContinueOnError)
	fs.StringVar(&cfg.InputPath, "input", "expenses.csv", "path to the input CSV")
	fs.StringVar(&cfg.OutputPath, "output", "enriched.json", "path to the output JSON file")
	fs.BoolVar(&cfg.Pretty, "pretty", false, "pretty-print the output JSON")
	fs.StringVar(&cfg.FxAPIKey, "fx-key", defaultFxKey(), "currencylayer API key (optional; falls back to exchangerate.host)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	timeoutStr := envOrDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}
	cfg.HTTPTimeout = timeout

	cfg.Workers, err = envInt("ENRICH_WORKERS", 4)
	if err != nil || cfg.Workers < 1 {
		return nil, errors.New("invalid ENRICH_WORKERS")
	}

	threshold, err := envInt("BREAKER_THRESHOLD", 5)
	if err != nil || threshold < 0 {
		return nil, errors.New("invalid BREAKER_THRESHOLD")
	}
	cfg.BreakerThreshold = uint32(threshold)

	cfg.LogLevel = envOrDefault("LOG_LEVEL", "info")
	cfg.LogFormat = envOrDefault("LOG_FORMAT", "text")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	cfg.GeocodingURL = os.Getenv("GEOCODING_URL")
	cfg.ForecastURL = os.Getenv("FORECAST_URL")
	cfg.CurrencylayerURL = os.Getenv("CURRENCYLAYER_URL")
	cfg.ExchangerateURL = os.Getenv("EXCHANGERATE_URL")

	if cfg.InputPath == "" {
		return nil, errors.New("input path is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("output path is required")
	}

	return cfg, nil
}

// defaultFxKey resolves the API key from the environment. CURRENCYLAYER_KEY
// is canonical; EXCHANGERATE_HOST_KEY is the legacy name kept for
// compatibility with existing deployments.
func defaultFxKey() string {
	if v := os.Getenv("CURRENCYLAYER_KEY"); v != "" {
		return v
	}
	return os.Getenv("EXCHANGERATE_HOST_KEY")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
