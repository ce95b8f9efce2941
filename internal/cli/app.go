package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/keshon/v0id/datastore"
	"github.com/keshon/v0id/internal/ai"
	"github.com/keshon/v0id/internal/archive"
	"github.com/keshon/v0id/internal/config"
	"github.com/keshon/v0id/internal/encyclopedia"
	"github.com/keshon/v0id/internal/mind"
	"github.com/rs/zerolog/log"
)

// app is everything a running mind needs. Commands that only read open a
// subset through openSnapshot or openArchive.
type app struct {
	cfg     *config.Config
	session string
	ds      *datastore.DataStore
	store   *mind.Store
	archive archive.Archive
	gateway *ai.Gateway
	updater *mind.Updater
	runner  *mind.Runner
}

func openSnapshot(cfg *config.Config) (*datastore.DataStore, *mind.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SnapshotFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	ds, err := datastore.New(cfg.SnapshotFile)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot: %w", err)
	}
	return ds, mind.NewStore(ds, cfg.GraphCapacity), nil
}

func openArchive(ctx context.Context, cfg *config.Config) (archive.Archive, error) {
	a, err := archive.Open(ctx, cfg.ArchiveDriver, cfg.ArchiveDSN)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return a, nil
}

func seeds(cfg *config.Config) (loop, gateway int64) {
	if cfg.Seed != 0 {
		return cfg.Seed, cfg.Seed + 1
	}
	now := time.Now().UnixNano()
	return now, now / 3
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, session: uuid.NewString()}

	var err error
	a.ds, a.store, err = openSnapshot(cfg)
	if err != nil {
		return nil, err
	}
	a.archive, err = openArchive(ctx, cfg)
	if err != nil {
		a.ds.Close()
		return nil, err
	}

	provider, err := ai.NewProvider(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	loopSeed, gwSeed := seeds(cfg)
	a.gateway = ai.NewGateway(provider, ai.GatewayOptions{
		Timeout:       cfg.RequestTimeout,
		RatePerSecond: cfg.RatePerSecond,
		Rand:          rand.New(rand.NewSource(gwSeed)),
	})

	opts := mind.DefaultOptions()
	opts.MaxAttempts = cfg.MaxAttempts
	opts.DreamDuration = cfg.DreamDuration
	opts.NormalizeEmotions = cfg.NormalizeMoods

	var wiki mind.Encyclopedia
	if cfg.WikipediaURL != "" {
		wiki = encyclopedia.New(cfg.WikipediaURL, cfg.RequestTimeout)
	}

	state := a.store.Load(a.session, time.Now())
	a.updater = mind.NewUpdater(state, mind.Deps{
		Gateway:      a.gateway,
		Composer:     mind.NewComposer(cfg.Composer),
		Encyclopedia: wiki,
		Recorder:     a.archive,
		Budget:       mind.DefaultCallBudget(),
		Rand:         rand.New(rand.NewSource(loopSeed)),
	}, opts)
	a.runner = mind.NewRunner(a.updater, a.store, cfg.Interval)

	log.Info().
		Str("session", a.session).
		Str("provider", provider.Name()).
		Str("composer", cfg.Composer).
		Str("archive", cfg.ArchiveDriver).
		Dur("interval", cfg.Interval).
		Msg("mind assembled")
	return a, nil
}

// Close saves the snapshot and releases the archive.
func (a *app) Close() error {
	var errs []error
	if a.runner != nil {
		if err := a.store.Save(a.updater.Snapshot()); err != nil {
			errs = append(errs, err)
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close archive: %w", err))
		}
	}
	if a.ds != nil {
		if err := a.ds.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close snapshot: %w", err))
		}
	}
	return errors.Join(errs...)
}
