package openmeteo

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/tripline/expense-enricher/internal/adapter/webapi"
	"github.com/tripline/expense-enricher/internal/domain"
	"github.com/tripline/expense-enricher/internal/observability"
)

const defaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// ForecastClient implements domain.WeatherProvider using the Open-Meteo
// Forecast API's current_weather block.
type ForecastClient struct {
	client  *webapi.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewForecastClient creates a weather client. An empty baseURL selects the
// production endpoint.
func NewForecastClient(baseURL string, timeout time.Duration, breakerThreshold uint32, metrics *observability.Metrics, logger *slog.Logger) *ForecastClient {
	if baseURL == "" {
		baseURL = defaultForecastURL
	}
	return &ForecastClient{
		client:  webapi.NewClient("weather", timeout, breakerThreshold),
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Current fetches current conditions at the given coordinates. A response
// without a current_weather block yields an empty WeatherResult, not an
// error.
func (c *ForecastClient) Current(ctx context.Context, lat, lon float64) (domain.WeatherResult, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current_weather": {"true"},
	}

	start := time.Now()
	var resp forecastResponse
	err := c.client.GetJSON(ctx, c.baseURL, params, &resp)
	c.metrics.LookupDuration.WithLabelValues("weather").Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.LookupRequests.WithLabelValues("weather", "error").Inc()
		return domain.WeatherResult{}, err
	}

	if resp.CurrentWeather == nil {
		c.metrics.LookupRequests.WithLabelValues("weather", "empty").Inc()
		c.logger.Debug("forecast response missing current_weather", "lat", lat, "lon", lon)
		return domain.WeatherResult{}, nil
	}

	c.metrics.LookupRequests.WithLabelValues("weather", "success").Inc()
	return domain.WeatherResult{
		TemperatureC: domain.Float(resp.CurrentWeather.Temperature),
		WindSpeedMPS: domain.Float(resp.CurrentWeather.WindSpeed),
	}, nil
}

// Open-Meteo Forecast API response types.

type forecastResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"windspeed"`
}
