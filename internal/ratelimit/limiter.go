package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per upstream endpoint so a burst of flight
// searches cannot starve airport suggestions of the shared API quota.
type Limiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

func New(config Config) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewWithDefaults() *Limiter {
	return New(DefaultConfig())
}

// For returns the bucket of endpoint, creating it from the defaults on first use.
func (l *Limiter) For(endpoint string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[endpoint]
	if !ok {
		b = newBucket(l.defaults.RequestsPerSecond, l.defaults.BurstSize)
		l.buckets[endpoint] = b
	}
	return b
}

// SetLimit gives endpoint its own rate instead of the defaults.
func (l *Limiter) SetLimit(endpoint string, rps float64, burst int) {
	l.mu.Lock()
	l.buckets[endpoint] = newBucket(rps, burst)
	l.mu.Unlock()
}

// Wait blocks until endpoint has a token or ctx is done.
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	return l.For(endpoint).Wait(ctx)
}

func newBucket(rps float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), burst)
}
