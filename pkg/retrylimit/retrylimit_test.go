package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func TestIsOverload(t *testing.T) {
	if !IsOverload(statusErr(429)) || !IsOverload(statusErr(503)) {
		t.Fatal("expected 429 and 503 to be overload")
	}
	if IsOverload(statusErr(404)) || IsOverload(errors.New("boom")) {
		t.Fatal("404 and plain errors are not overload")
	}
	if !IsOverload(fmt.Errorf("wrapped: %w", statusErr(500))) {
		t.Fatal("expected wrapped 500 to be overload")
	}
}

func TestLimiterBackoffAndClamp(t *testing.T) {
	lim := NewAdaptiveLimiter(4, 1, 8, 1, 0.5)
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 2 {
		t.Fatalf("expected 2 rps after one backoff, got %v", got)
	}
	lim.RateLimited()
	lim.RateLimited()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("expected clamp at min 1, got %v", got)
	}
	// Success inside the cooldown window must not raise the limit.
	lim.Success()
	if got := lim.CurrentLimit(); got != 1 {
		t.Fatalf("expected limit to stay at 1 during cooldown, got %v", got)
	}
}

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialDelay: time.Millisecond}, nil, func(context.Context) error {
		calls++
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDoFatalStopsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{MaxAttempts: 5, InitialDelay: time.Millisecond}, nil, func(context.Context) error {
		calls++
		return &FatalError{Err: errors.New("bad request")}
	})
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoSucceedsOnSecondAttempt(t *testing.T) {
	calls := 0
	lim := NewAdaptiveLimiter(100, 1, 100, 1, 0.5)
	err := Do(context.Background(), Config{MaxAttempts: 3, InitialDelay: time.Millisecond}, lim, func(context.Context) error {
		calls++
		if calls == 1 {
			return statusErr(503)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if lim.CurrentLimit() != 50 {
		t.Fatalf("expected limiter to halve after 503, got %v", lim.CurrentLimit())
	}
}
