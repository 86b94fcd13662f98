// Package exchangerate implements the keyless fallback currency rate
// provider against exchangerate.host.
package exchangerate

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/tripline/expense-enricher/internal/adapter/webapi"
	"github.com/tripline/expense-enricher/internal/observability"
)

const defaultBaseURL = "https://api.exchangerate.host"

// Client implements domain.RateProvider using exchangerate.host. No
// authentication is required; the service is rate-limited instead.
type Client struct {
	client  *webapi.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates an exchangerate.host client. An empty baseURL selects
// the production endpoint.
func NewClient(baseURL string, timeout time.Duration, breakerThreshold uint32, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		client:  webapi.NewClient("exchangerate", timeout, breakerThreshold),
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Rate returns the conversion rate from one unit of currency to USD. It
// tries /convert first and falls back to /latest when the convert response
// lacks a rate.
func (c *Client) Rate(ctx context.Context, currency string) (float64, error) {
	rate, convertErr := c.rateViaConvert(ctx, currency)
	if convertErr == nil {
		c.metrics.LookupRequests.WithLabelValues("exchangerate", "success").Inc()
		return rate, nil
	}
	c.logger.Debug("exchangerate.host /convert unavailable, trying /latest", "currency", currency, "error", convertErr)

	rate, latestErr := c.rateViaLatest(ctx, currency)
	if latestErr == nil {
		c.metrics.LookupRequests.WithLabelValues("exchangerate", "success").Inc()
		return rate, nil
	}

	c.metrics.LookupRequests.WithLabelValues("exchangerate", "error").Inc()
	return 0, fmt.Errorf("exchangerate.host: convert: %v; latest: %w", convertErr, latestErr)
}

func (c *Client) rateViaConvert(ctx context.Context, currency string) (float64, error) {
	params := url.Values{
		"from": {currency},
		"to":   {"USD"},
	}

	start := time.Now()
	var resp convertResponse
	err := c.client.GetJSON(ctx, c.baseURL+"/convert", params, &resp)
	c.metrics.LookupDuration.WithLabelValues("exchangerate").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}

	if resp.Info.Rate <= 0 {
		return 0, fmt.Errorf("convert response missing rate")
	}
	return resp.Info.Rate, nil
}

func (c *Client) rateViaLatest(ctx context.Context, currency string) (float64, error) {
	params := url.Values{
		"base":    {currency},
		"symbols": {"USD"},
	}

	start := time.Now()
	var resp latestResponse
	err := c.client.GetJSON(ctx, c.baseURL+"/latest", params, &resp)
	c.metrics.LookupDuration.WithLabelValues("exchangerate").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}

	rate, ok := resp.Rates["USD"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("latest response missing USD rate")
	}
	return rate, nil
}

// exchangerate.host API response types.

type convertResponse struct {
	Info struct {
		Rate float64 `json:"rate"`
	} `json:"info"`
	Result float64 `json:"result"`
}

type latestResponse struct {
	Rates map[string]float64 `json:"rates"`
}
