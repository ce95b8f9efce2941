package mind

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/rs/zerolog"
)

// Scheduler drives an Updater on a fixed interval from one goroutine. A tick
// that fires while the previous one is still running is skipped. While the
// mind dreams, a timer wakes it at the deadline.
type Scheduler struct {
	updater  *Updater
	interval time.Duration
	onTick   func(context.Context, TickReport) // called after every tick or wake
	busy     atomic.Bool
	skipped  atomic.Int64
	wg       sync.WaitGroup
	log      zerolog.Logger
}

// NewScheduler creates a scheduler. onTick can be nil.
func NewScheduler(u *Updater, interval time.Duration, onTick func(context.Context, TickReport)) *Scheduler {
	return &Scheduler{
		updater:  u,
		interval: interval,
		onTick:   onTick,
		log:      logging.Component("scheduler"),
	}
}

// Skipped returns how many ticks were dropped because one was in flight.
func (s *Scheduler) Skipped() int64 { return s.skipped.Load() }

// Run blocks until ctx is done, then waits for the in-flight tick.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// wakeC stays nil until a dream is scheduled.
	var wake *time.Timer
	var wakeC <-chan time.Time
	defer func() {
		if wake != nil {
			wake.Stop()
		}
	}()
	arm := func() {
		at, dreaming := s.updater.DreamEndsAt()
		if !dreaming || wakeC != nil {
			return
		}
		d := max(0, time.Until(at))
		if wake == nil {
			wake = time.NewTimer(d)
		} else {
			wake.Reset(d)
		}
		wakeC = wake.C
	}

	done := make(chan struct{}, 1)
	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")
	arm()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.log.Info().Int64("skipped", s.Skipped()).Msg("scheduler stopped")
			return nil

		case <-ticker.C:
			s.launch(ctx, done, func(ctx context.Context) TickReport {
				return s.updater.Tick(ctx)
			})

		case <-wakeC:
			wakeC = nil
			s.launch(ctx, done, func(ctx context.Context) TickReport {
				if !s.updater.Wake(ctx) {
					return TickReport{Skipped: true}
				}
				return TickReport{Mode: ModeRun, Woke: true, Kind: "wake"}
			})

		case <-done:
			arm()
		}
	}
}

// launch runs fn in the background unless something is already running.
func (s *Scheduler) launch(ctx context.Context, done chan<- struct{}, fn func(context.Context) TickReport) {
	if !s.busy.CompareAndSwap(false, true) {
		n := s.skipped.Add(1)
		s.log.Warn().Int64("skipped_total", n).Msg("previous tick still running, skipping")
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.busy.Store(false)
			select {
			case done <- struct{}{}:
			default:
			}
		}()
		report := fn(ctx)
		if s.onTick != nil && !report.Skipped {
			s.onTick(ctx, report)
		}
	}()
}
