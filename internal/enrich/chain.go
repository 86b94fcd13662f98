package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tripline/expense-enricher/internal/domain"
	"github.com/tripline/expense-enricher/internal/observability"
)

// Chain resolves a currency to its USD rate through an ordered pair of
// providers: a key-gated primary and a keyless fallback. A primary failure
// degrades to the fallback with a warning; it never fails the record.
type Chain struct {
	primary  domain.RateProvider // nil when no API key is configured
	fallback domain.RateProvider
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewChain creates a currency chain. Pass a nil primary to skip straight to
// the fallback provider.
func NewChain(primary, fallback domain.RateProvider, logger *slog.Logger, metrics *observability.Metrics) *Chain {
	return &Chain{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
	}
}

// Resolve returns the rate to USD for the given currency. USD itself is an
// identity conversion and never touches the network. The result is always
// usable: both providers failing yields FxNone with a nil rate.
func (c *Chain) Resolve(ctx context.Context, currency string) domain.FxResult {
	cur := strings.ToUpper(strings.TrimSpace(currency))

	if cur == "USD" {
		c.metrics.FxSource.WithLabelValues(string(domain.FxPrimary)).Inc()
		return domain.FxResult{RateToUSD: domain.Float(1.0), Source: domain.FxPrimary}
	}

	if c.primary != nil {
		rate, err := c.primary.Rate(ctx, cur)
		if err == nil {
			c.metrics.FxSource.WithLabelValues(string(domain.FxPrimary)).Inc()
			return domain.FxResult{RateToUSD: domain.Float(rate), Source: domain.FxPrimary}
		}
		c.logger.Warn("primary currency provider degraded, using fallback",
			"currency", cur,
			"error", err,
		)
	}

	rate, err := c.fallback.Rate(ctx, cur)
	if err == nil {
		c.metrics.FxSource.WithLabelValues(string(domain.FxFallback)).Inc()
		return domain.FxResult{RateToUSD: domain.Float(rate), Source: domain.FxFallback}
	}
	c.logger.Warn("currency conversion failed",
		"currency", cur,
		"error", err,
	)

	c.metrics.FxSource.WithLabelValues(string(domain.FxNone)).Inc()
	return domain.FxResult{Source: domain.FxNone}
}
