// Package currencylayer implements the primary, API-key-gated currency rate
// provider against the APILayer currencylayer service.
//
// Free-tier keys often cannot call /convert (plan restriction), so the client
// degrades to /live, which quotes every currency against a USD base, and
// inverts the USD<CUR> quote to obtain CUR→USD.
package currencylayer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/tripline/expense-enricher/internal/adapter/webapi"
	"github.com/tripline/expense-enricher/internal/observability"
)

const defaultBaseURL = "https://api.currencylayer.com"

// Client implements domain.RateProvider using currencylayer.
type Client struct {
	apiKey  string
	client  *webapi.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a currencylayer client. An empty baseURL selects the
// production endpoint.
func NewClient(apiKey, baseURL string, timeout time.Duration, breakerThreshold uint32, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		client:  webapi.NewClient("currencylayer", timeout, breakerThreshold),
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Rate returns the conversion rate from one unit of currency to USD. It
// tries /convert first; when the plan rejects that endpoint or the call
// fails, it retries via /live and inverts the USD-based quote.
func (c *Client) Rate(ctx context.Context, currency string) (float64, error) {
	rate, convertErr := c.rateViaConvert(ctx, currency)
	if convertErr == nil {
		c.metrics.LookupRequests.WithLabelValues("currencylayer", "success").Inc()
		return rate, nil
	}
	c.logger.Debug("currencylayer /convert unavailable, trying /live", "currency", currency, "error", convertErr)

	rate, liveErr := c.rateViaLive(ctx, currency)
	if liveErr == nil {
		c.metrics.LookupRequests.WithLabelValues("currencylayer", "success").Inc()
		return rate, nil
	}

	c.metrics.LookupRequests.WithLabelValues("currencylayer", "error").Inc()
	return 0, fmt.Errorf("currencylayer: convert: %v; live: %w", convertErr, liveErr)
}

// rateViaConvert calls /convert for 1 unit of the currency.
func (c *Client) rateViaConvert(ctx context.Context, currency string) (float64, error) {
	params := url.Values{
		"from":       {currency},
		"to":         {"USD"},
		"amount":     {"1"},
		"access_key": {c.apiKey},
	}

	start := time.Now()
	var resp convertResponse
	err := c.client.GetJSON(ctx, c.baseURL+"/convert", params, &resp)
	c.metrics.LookupDuration.WithLabelValues("currencylayer").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}

	if !resp.Success {
		return 0, &APIError{Code: resp.Error.Code, Info: resp.Error.Info}
	}
	if resp.Info.Rate <= 0 {
		return 0, fmt.Errorf("convert response missing rate")
	}
	return resp.Info.Rate, nil
}

// rateViaLive calls /live with a USD source and inverts the quote.
func (c *Client) rateViaLive(ctx context.Context, currency string) (float64, error) {
	params := url.Values{
		"access_key": {c.apiKey},
		"currencies": {currency},
	}

	start := time.Now()
	var resp liveResponse
	err := c.client.GetJSON(ctx, c.baseURL+"/live", params, &resp)
	c.metrics.LookupDuration.WithLabelValues("currencylayer").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}

	if !resp.Success {
		return 0, &APIError{Code: resp.Error.Code, Info: resp.Error.Info}
	}
	quote, ok := resp.Quotes["USD"+currency]
	if !ok || quote <= 0 {
		return 0, fmt.Errorf("live response missing USD%s quote", currency)
	}
	return 1 / quote, nil
}

// APIError is a currencylayer API-level rejection, e.g. a plan restriction.
type APIError struct {
	Code int
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("currencylayer error %d: %s", e.Code, e.Info)
}

// currencylayer API response types.

type apiError struct {
	Code int    `json:"code"`
	Info string `json:"info"`
}

type convertResponse struct {
	Success bool `json:"success"`
	Info    struct {
		Rate float64 `json:"rate"`
	} `json:"info"`
	Result float64  `json:"result"`
	Error  apiError `json:"error"`
}

type liveResponse struct {
	Success bool               `json:"success"`
	Quotes  map[string]float64 `json:"quotes"`
	Error   apiError           `json:"error"`
}
