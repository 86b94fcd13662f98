// Package openmeteo implements the geocoding and weather providers against
// the Open-Meteo public APIs. Neither endpoint requires authentication.
package openmeteo

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tripline/expense-enricher/internal/adapter/webapi"
	"github.com/tripline/expense-enricher/internal/domain"
	"github.com/tripline/expense-enricher/internal/observability"
)

const defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// candidateCount is how many geocoding candidates to request so the country
// filter has something to work with.
const candidateCount = 10

// GeocodingClient implements domain.Geocoder using the Open-Meteo Geocoding API.
type GeocodingClient struct {
	client  *webapi.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewGeocodingClient creates a geocoding client. An empty baseURL selects the
// production endpoint.
func NewGeocodingClient(baseURL string, timeout time.Duration, breakerThreshold uint32, metrics *observability.Metrics, logger *slog.Logger) *GeocodingClient {
	if baseURL == "" {
		baseURL = defaultGeocodingURL
	}
	return &GeocodingClient{
		client:  webapi.NewClient("geocoding", timeout, breakerThreshold),
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve looks up coordinates for a city. Among the returned candidates it
// prefers the first whose country code matches the requested one; when no
// candidate matches, the first candidate wins. Zero candidates is not an
// error: the caller receives an unresolved GeoResult.
func (c *GeocodingClient) Resolve(ctx context.Context, city, countryCode string) (domain.GeoResult, error) {
	params := url.Values{
		"name":  {city},
		"count": {strconv.Itoa(candidateCount)},
	}

	start := time.Now()
	var resp searchResponse
	err := c.client.GetJSON(ctx, c.baseURL, params, &resp)
	c.metrics.LookupDuration.WithLabelValues("geocoding").Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("geocoding", "error").Inc()
		return domain.GeoResult{}, err
	}

	if len(resp.Results) == 0 {
		c.metrics.LookupRequests.WithLabelValues("geocoding", "empty").Inc()
		c.logger.Debug("geocoding returned no candidates", "city", city, "country_code", countryCode)
		return domain.GeoResult{}, nil
	}

	c.metrics.LookupRequests.WithLabelValues("geocoding", "success").Inc()

	best := resp.Results[0]
	for _, cand := range resp.Results {
		if strings.EqualFold(cand.CountryCode, countryCode) {
			best = cand
			break
		}
	}

	return domain.GeoResult{
		Lat: domain.Float(best.Latitude),
		Lon: domain.Float(best.Longitude),
	}, nil
}

// Open-Meteo Geocoding API response types.

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
}
