package mind

import (
	"context"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/rs/zerolog"
)

// Runner wires an Updater to its Scheduler and snapshot Store. Every tick
// and wake is followed by a snapshot write; write failures are logged and the
// loop keeps going on in-memory state.
type Runner struct {
	Updater   *Updater
	Scheduler *Scheduler
	Store     *Store
	log       zerolog.Logger
}

func NewRunner(u *Updater, store *Store, interval time.Duration) *Runner {
	r := &Runner{Updater: u, Store: store, log: logging.Component("mind")}
	r.Scheduler = NewScheduler(u, interval, func(ctx context.Context, _ TickReport) {
		r.persist()
	})
	return r
}

// Run blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	return r.Scheduler.Run(ctx)
}

// ThinkOnce runs a single tick outside the scheduler and saves the result.
func (r *Runner) ThinkOnce(ctx context.Context) TickReport {
	report := r.Updater.Tick(ctx)
	r.persist()
	return report
}

// Reset wipes the snapshot and starts over with a fresh mind.
func (r *Runner) Reset(sessionID string, graphCapacity int) error {
	r.Updater.Replace(NewState(sessionID, graphCapacity, time.Now()))
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Reset(); err != nil {
		return err
	}
	r.persist()
	return nil
}

func (r *Runner) persist() {
	if r.Store == nil {
		return
	}
	if err := r.Store.Save(r.Updater.Snapshot()); err != nil {
		r.log.Error().Err(err).Msg("snapshot write failed, continuing in memory")
	}
}
