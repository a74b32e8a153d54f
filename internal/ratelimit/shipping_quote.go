package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/vitrine/internal/config"
	"github.com/smallbiznis/vitrine/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyShippingQuote      = "shipping:quote:%s:%s"
	endpointShippingQuote = "shipping_quote"
)

type QuoteLimiterParams struct {
	fx.In

	Config  config.Config
	Log     *zap.Logger
	Bucket  *TokenBucket     `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// QuoteLimiter throttles anonymous shipping quotes per store and client IP.
type QuoteLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewQuoteLimiter(p QuoteLimiterParams) *QuoteLimiter {
	limitCfg := p.Config.QuoteRateLimit
	enabled := limitCfg.Enabled && p.Bucket != nil && limitCfg.Rate > 0 && limitCfg.Burst > 0
	return &QuoteLimiter{
		enabled: enabled,
		bucket:  p.Bucket,
		rate:    limitCfg.Rate,
		burst:   limitCfg.Burst,
		log:     p.Log.Named("ratelimit.quote"),
		metrics: p.Metrics,
	}
}

func (l *QuoteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// Allow consumes one token. Redis failures fail open.
func (l *QuoteLimiter) Allow(ctx context.Context, storeSlug, clientIP string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}

	key := fmt.Sprintf(keyShippingQuote, strings.ToLower(strings.TrimSpace(storeSlug)), strings.TrimSpace(clientIP))
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("quote rate limit check failed", zap.String("store_slug", storeSlug), zap.Error(err))
		return &RateLimitResult{Allowed: true, Limit: l.burst}, nil
	}
	l.metrics.RecordRateLimit(endpointShippingQuote, res.Allowed)
	return res, nil
}
