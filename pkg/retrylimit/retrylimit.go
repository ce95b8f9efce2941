// Package retrylimit provides an adaptive rate limiter and a bounded retry
// helper for outbound HTTP calls.
//
// The limiter speeds up on success and halves (or whatever stepDown says) on
// 429/5xx. Retry is opt-in: callers that must not retry (the text gateway) use
// the limiter alone.
//
//	lim := retrylimit.NewAdaptiveLimiter(1, 0.2, 4, 0.2, 0.5)
//	err := retrylimit.Do(ctx, retrylimit.Config{MaxAttempts: 2}, lim, func(ctx context.Context) error {
//	    return fetch(ctx)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// =============================================================================
// Limiter
// =============================================================================

// AdaptiveLimiter wraps rate.Limiter and moves its limit between min and max
// depending on request outcomes. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
	cooldown  time.Duration
}

// NewAdaptiveLimiter creates a limiter starting at initial requests per second.
// Fractional rates are allowed (0.2 = one call every five seconds).
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min <= 0 {
		min = 0.1
	}
	if max < min {
		max = min
	}
	if initial < min {
		initial = min
	}
	if initial > max {
		initial = max
	}
	if stepDown <= 0 || stepDown >= 1 {
		stepDown = 0.5
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
		cooldown: 10 * time.Second,
	}
}

// Wait blocks until a token is available or ctx is done.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	a.mu.RLock()
	l := a.limiter
	a.mu.RUnlock()
	return l.Wait(ctx)
}

// Success nudges the rate up, unless an error was seen within the cooldown.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.cooldown {
		a.adjust(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited multiplies the rate by stepDown.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.adjust(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// Observe records the outcome of a call: nil counts as success, overload
// errors (429/5xx) slow the limiter down, anything else is ignored.
func (a *AdaptiveLimiter) Observe(err error) {
	switch {
	case err == nil:
		a.Success()
	case IsOverload(err):
		a.RateLimited()
	}
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) adjust(next rate.Limit) {
	if next > a.maxLimit {
		next = a.maxLimit
	} else if next < a.minLimit {
		next = a.minLimit
	}
	if next != a.limiter.Limit() {
		a.limiter.SetLimit(next)
		a.limiter.SetBurst(burstFor(next))
	}
}

func burstFor(l rate.Limit) int {
	if l < 1 {
		return 1
	}
	return int(l)
}

// =============================================================================
// Errors
// =============================================================================

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// FatalError stops retries immediately.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// IsOverload reports whether err carries a 429 or 5xx status.
func IsOverload(err error) bool {
	var he HTTPError
	if !errors.As(err, &he) {
		return false
	}
	code := he.StatusCode()
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

// =============================================================================
// Retry
// =============================================================================

// Config bounds a retry loop.
type Config struct {
	MaxAttempts  int           // <= 0 means 1
	InitialDelay time.Duration // default 300ms
	MaxDelay     time.Duration // default 5s
	Multiplier   float64       // default 2
	Logger       *zerolog.Logger
}

// Do runs fn until it succeeds, returns a FatalError, ctx ends or attempts run
// out. Each attempt waits on lim first when lim is non-nil.
func Do(ctx context.Context, cfg Config, lim *AdaptiveLimiter, fn func(context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 300 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 5 * time.Second
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = 2
	}

	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if lim != nil {
			lim.Observe(err)
		}
		if err == nil {
			return nil
		}
		var fatal *FatalError
		if errors.As(err, &fatal) {
			return err
		}
		lastErr = err
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug().Err(err).Int("attempt", attempt).Dur("sleep", delay).Msg("retrying")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(addJitter(delay)):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
	return fmt.Errorf("max attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}

// addJitter adds 0-25% random jitter.
func addJitter(delay time.Duration) time.Duration {
	if delay < 4 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)))
}
