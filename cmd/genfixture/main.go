// Command genfixture enriches a CSV with deterministic stub providers and a
// frozen clock, producing a stable JSON fixture for test suites and demos.
// It uses the real orchestrator so fixtures match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixture -input testdata/expenses.csv -output testdata/enriched.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tripline/expense-enricher/internal/adapter/csvfile"
	"github.com/tripline/expense-enricher/internal/adapter/jsonfile"
	"github.com/tripline/expense-enricher/internal/domain"
	"github.com/tripline/expense-enricher/internal/enrich"
	"github.com/tripline/expense-enricher/internal/observability"
)

var fixtureTime = time.Date(2024, time.April, 26, 15, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	input := flag.String("input", "", "path to the input CSV")
	output := flag.String("output", "", "path for the enriched JSON fixture")
	flag.Parse()

	if *input == "" || *output == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -input, -output")
	}

	domain.SetClock(clockwork.NewFakeClockAt(fixtureTime))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	metrics := observability.NewMetricsForTesting()

	chain := enrich.NewChain(nil, stubRates{}, logger, metrics)
	enricher := enrich.New(stubGeocoder{}, stubWeather{}, chain, logger, metrics, 1)

	records, err := csvfile.NewReader(logger).ReadFile(*input)
	if err != nil {
		return err
	}

	results, err := enricher.EnrichAll(context.Background(), records)
	if err != nil {
		return err
	}

	if err := jsonfile.NewWriter(true).WriteFile(*output, results); err != nil {
		return err
	}

	log.Printf("wrote %d records to %s", len(results), *output)
	return nil
}

// stubGeocoder resolves a fixed set of cities.
type stubGeocoder struct{}

var cityCoords = map[string][2]float64{
	"bengaluru":     {12.9716, 77.5946},
	"berlin":        {52.5200, 13.4050},
	"san francisco": {37.7749, -122.4194},
	"tokyo":         {35.6762, 139.6503},
}

func (stubGeocoder) Resolve(_ context.Context, city, _ string) (domain.GeoResult, error) {
	c, ok := cityCoords[strings.ToLower(city)]
	if !ok {
		return domain.GeoResult{}, nil
	}
	return domain.GeoResult{Lat: domain.Float(c[0]), Lon: domain.Float(c[1])}, nil
}

// stubWeather derives conditions from the coordinates so different cities
// get distinct but reproducible values.
type stubWeather struct{}

func (stubWeather) Current(_ context.Context, lat, lon float64) (domain.WeatherResult, error) {
	return domain.WeatherResult{
		TemperatureC: domain.Float(math.Abs(math.Mod(lat, 30))),
		WindSpeedMPS: domain.Float(math.Abs(math.Mod(lon, 15))),
	}, nil
}

// stubRates uses fixed reference rates.
type stubRates struct{}

var fixedRates = map[string]float64{
	"INR": 0.012,
	"EUR": 1.07,
	"JPY": 0.0064,
	"GBP": 1.27,
}

func (stubRates) Rate(_ context.Context, currency string) (float64, error) {
	rate, ok := fixedRates[currency]
	if !ok {
		return 0, fmt.Errorf("no fixture rate for %s", currency)
	}
	return rate, nil
}
