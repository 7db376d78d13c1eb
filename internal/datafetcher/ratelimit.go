package datafetcher

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Upstream keys for the rate limiter.
const (
	UpstreamSubgraph   = "subgraph"
	UpstreamOneInch    = "oneinch"
	UpstreamDefiLlama  = "defillama"
	UpstreamCompletion = "llm"
)

// Limiter paces calls per upstream with a token bucket. It replaces the
// fixed sleeps the pipeline would otherwise need between calls to the
// same rate-limited API.
type Limiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewLimiter creates a limiter whose buckets default to the given refill
// rate and burst capacity. Individual upstreams can be tuned with SetRate.
func NewLimiter(rps float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// SetRate configures a dedicated bucket for one upstream.
func (l *Limiter) SetRate(upstream string, rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[upstream] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until a call to the upstream is allowed or the context is
// cancelled.
func (l *Limiter) Wait(ctx context.Context, upstream string) error {
	return l.bucket(upstream).Wait(ctx)
}

// Allow reports whether a call to the upstream is allowed right now.
func (l *Limiter) Allow(upstream string) bool {
	return l.bucket(upstream).Allow()
}

func (l *Limiter) bucket(upstream string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[upstream]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[upstream]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(l.rps), l.burst)
	l.limiters[upstream] = limiter
	return limiter
}
