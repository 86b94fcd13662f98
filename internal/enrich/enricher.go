// Package enrich orchestrates the per-record lookup sequence: geocoding,
// then weather (which depends on coordinates), and currency conversion.
// Provider failures degrade to null fields; nothing escapes Enrich except a
// record-level validation failure.
package enrich

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tripline/expense-enricher/internal/domain"
	"github.com/tripline/expense-enricher/internal/observability"
)

// Enricher runs the enrichment sequence for expense records.
type Enricher struct {
	geocoder domain.Geocoder
	weather  domain.WeatherProvider
	fx       *Chain
	logger   *slog.Logger
	metrics  *observability.Metrics
	workers  int
	ready    atomic.Bool
}

// New creates an Enricher. workers bounds how many records are enriched
// concurrently; values below 1 are treated as 1.
func New(geocoder domain.Geocoder, weather domain.WeatherProvider, fx *Chain, logger *slog.Logger, metrics *observability.Metrics, workers int) *Enricher {
	if workers < 1 {
		workers = 1
	}
	return &Enricher{
		geocoder: geocoder,
		weather:  weather,
		fx:       fx,
		logger:   logger,
		metrics:  metrics,
		workers:  workers,
	}
}

// CheckReadiness returns nil once at least one record has been enriched, or
// an error describing why the job is not yet ready.
func (e *Enricher) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("no records enriched yet")
	}
	return nil
}

// Enrich runs the lookup sequence for a single record. Geocoding feeds
// weather; currency conversion is independent. Lookup failures are logged
// and produce null fields. The only error returned is a validation failure
// of the record itself.
func (e *Enricher) Enrich(ctx context.Context, rec domain.InputRecord) (domain.EnrichedRecord, error) {
	if err := rec.Validate(); err != nil {
		return domain.EnrichedRecord{}, err
	}

	geo, err := e.geocoder.Resolve(ctx, rec.City, rec.CountryCode)
	if err != nil {
		e.logger.Warn("geocoding failed",
			"row", rec.Line,
			"city", rec.City,
			"country_code", rec.CountryCode,
			"error", err,
		)
		geo = domain.GeoResult{}
	}

	// Weather needs coordinates; an unresolved city skips the call entirely.
	var weather domain.WeatherResult
	if geo.Resolved() {
		weather, err = e.weather.Current(ctx, *geo.Lat, *geo.Lon)
		if err != nil {
			e.logger.Warn("weather lookup failed",
				"row", rec.Line,
				"city", rec.City,
				"error", err,
			)
			weather = domain.WeatherResult{}
		}
	}

	fx := e.fx.Resolve(ctx, rec.Currency)

	out := domain.Assemble(rec, geo, weather, fx, domain.RetrievalTimestamp())

	e.metrics.RecordsProcessed.Inc()
	e.ready.Store(true)
	return out, nil
}

// EnrichAll enriches records concurrently while preserving input order:
// every worker writes to its own output slot. Records failing validation are
// excluded with a warning. The only error returned is context cancellation.
func (e *Enricher) EnrichAll(ctx context.Context, recs []domain.InputRecord) ([]domain.EnrichedRecord, error) {
	slots := make([]*domain.EnrichedRecord, len(recs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, rec := range recs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			out, err := e.Enrich(ctx, rec)
			if err != nil {
				var verr *domain.ValidationError
				if errors.As(err, &verr) {
					e.logger.Warn("skipping invalid record",
						"row", verr.Line,
						"city", rec.City,
						"error", err,
					)
					e.metrics.RecordsSkipped.Inc()
					return nil
				}
				return err
			}
			slots[i] = &out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]domain.EnrichedRecord, 0, len(recs))
	for _, out := range slots {
		if out != nil {
			results = append(results, *out)
		}
	}
	return results, nil
}
