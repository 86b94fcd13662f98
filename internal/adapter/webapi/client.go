// Package webapi provides the shared HTTP GET adapter used by every external
// API client. One attempt per call, bounded timeout, typed errors; an
// optional circuit breaker stops hammering a provider that is down for the
// remainder of the batch.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds every provider call.
	DefaultTimeout = 10 * time.Second

	userAgent = "expense-enricher/1.2"
)

// Client issues GET requests with query parameters and decodes JSON bodies.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Client with the given per-request timeout. A positive
// breakerThreshold installs a circuit breaker named after the provider that
// opens after that many consecutive failures; zero disables it.
func NewClient(name string, timeout time.Duration, breakerThreshold uint32) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
	if breakerThreshold > 0 {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerThreshold
			},
		})
	}
	return c
}

// GetJSON performs a single GET against rawURL with the given query
// parameters and decodes the response body into out. Any failure is returned
// as a *Error; no retries are performed at this layer.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	if c.breaker == nil {
		return c.getJSON(ctx, rawURL, params, out)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.getJSON(ctx, rawURL, params, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Kind: KindOpen, Message: "circuit breaker open", Err: err}
	}
	return err
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	u := rawURL
	if len(params) > 0 {
		u = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "create request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &Error{Kind: KindStatus, Status: resp.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Message: "decode response", Err: err}
	}
	return nil
}

func classifyTransport(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Kind: KindTimeout, Message: fmt.Sprintf("request timed out: %v", err), Err: err}
	}
	return &Error{Kind: KindTransport, Message: err.Error(), Err: err}
}
