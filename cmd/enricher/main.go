// Command enricher reads an expense CSV, enriches each row with geocoding,
// current weather, and a USD conversion from external APIs, and writes the
// result as a JSON document.
//
// Individual lookup failures degrade to null fields; only an unreadable
// input or unwritable output fails the job.
//
// Usage:
//
//	enricher -input expenses.csv -output enriched.json -pretty \
//	  -fx-key $CURRENCYLAYER_KEY
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripline/expense-enricher/internal/adapter/csvfile"
	"github.com/tripline/expense-enricher/internal/adapter/currencylayer"
	"github.com/tripline/expense-enricher/internal/adapter/exchangerate"
	"github.com/tripline/expense-enricher/internal/adapter/httpserver"
	"github.com/tripline/expense-enricher/internal/adapter/jsonfile"
	"github.com/tripline/expense-enricher/internal/adapter/openmeteo"
	"github.com/tripline/expense-enricher/internal/config"
	"github.com/tripline/expense-enricher/internal/domain"
	"github.com/tripline/expense-enricher/internal/enrich"
	"github.com/tripline/expense-enricher/internal/observability"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	geocoder := openmeteo.NewGeocodingClient(cfg.GeocodingURL, cfg.HTTPTimeout, cfg.BreakerThreshold, metrics, logger)
	weather := openmeteo.NewForecastClient(cfg.ForecastURL, cfg.HTTPTimeout, cfg.BreakerThreshold, metrics, logger)

	// The primary currency provider needs an API key; without one the chain
	// starts at the keyless fallback.
	var primary domain.RateProvider
	if cfg.FxAPIKey != "" {
		primary = currencylayer.NewClient(cfg.FxAPIKey, cfg.CurrencylayerURL, cfg.HTTPTimeout, cfg.BreakerThreshold, metrics, logger)
	} else {
		logger.Info("no currency API key configured, using fallback provider only")
	}
	fallback := exchangerate.NewClient(cfg.ExchangerateURL, cfg.HTTPTimeout, cfg.BreakerThreshold, metrics, logger)
	chain := enrich.NewChain(primary, fallback, logger, metrics)

	enricher := enrich.New(geocoder, weather, chain, logger, metrics, cfg.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional metrics endpoint for long runs.
	if cfg.MetricsAddr != "" {
		srv := httpserver.NewServer(cfg.MetricsAddr, enricher, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	metrics.JobRunning.Set(1)
	defer metrics.JobRunning.Set(0)

	records, err := csvfile.NewReader(logger).ReadFile(cfg.InputPath)
	if err != nil {
		logger.Error("failed to read input", "path", cfg.InputPath, "error", err)
		return err
	}
	logger.Info("input loaded", "path", cfg.InputPath, "records", len(records))

	results, err := enricher.EnrichAll(ctx, records)
	if err != nil {
		logger.Error("enrichment aborted", "error", err)
		return err
	}

	if err := jsonfile.NewWriter(cfg.Pretty).WriteFile(cfg.OutputPath, results); err != nil {
		logger.Error("failed to write output", "path", cfg.OutputPath, "error", err)
		return err
	}

	logger.Info("job complete", "records", len(results), "output", cfg.OutputPath)
	fmt.Printf("Wrote %d rows to %s\n", len(results), cfg.OutputPath)
	return nil
}
