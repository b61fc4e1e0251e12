// Package resilience holds the retry and circuit-breaker helpers shared by
// the outbound clients (RabbitMQ and Google Sheets).
package resilience

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds retry parameters.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func DefaultConfig() Config {
	return Config{MaxRetries: 3, InitialBackoff: 500 * time.Millisecond, MaxBackoff: 30 * time.Second}
}

// Backoff returns the wait before retry attempt (0-based): InitialBackoff
// doubled per attempt, capped at MaxBackoff. No jitter.
func (c Config) Backoff(attempt int) time.Duration {
	if c.InitialBackoff <= 0 {
		return 0
	}
	d := c.InitialBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
		if c.MaxBackoff > 0 && d >= c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	if c.MaxBackoff > 0 && d > c.MaxBackoff {
		return c.MaxBackoff
	}
	return d
}

// RetryWithBackoff runs fn until it succeeds, MaxRetries retries have been
// spent, or ctx ends. Waits add up to 50% jitter on top of Backoff.
func RetryWithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == cfg.MaxRetries {
			break
		}

		wait := cfg.Backoff(attempt)
		if wait >= 2 {
			wait += time.Duration(rand.Int64N(int64(wait / 2)))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

// NewCircuitBreaker trips after five requests with at least 60% failures and
// probes again after timeout. State changes are logged.
func NewCircuitBreaker(name string, timeout time.Duration, logger *slog.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}
