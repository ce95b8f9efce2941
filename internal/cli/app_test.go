package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/keshon/v0id/internal/config"
)

func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Interval:       time.Second,
		DreamDuration:  time.Second,
		MaxAttempts:    3,
		Composer:       "monologue",
		NormalizeMoods: true,
		GraphCapacity:  100,
		Seed:           11,
		Provider:       "offline",
		RequestTimeout: time.Second,
		DataDir:        dir,
		SnapshotFile:   filepath.Join(dir, "mind.json"),
		ArchiveDriver:  "sqlite",
		ArchiveDSN:     filepath.Join(dir, "thoughts.db"),
	}
}

func TestAppThinksOfflineAndPersists(t *testing.T) {
	c := offlineConfig(t)
	ctx := context.Background()

	a, err := newApp(ctx, c)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	r := a.runner.ThinkOnce(ctx)
	if r.Thought == "" {
		t.Fatalf("empty thought: %+v", r)
	}
	if !strings.HasPrefix(a.gateway.LastError(), "offline unavailable") {
		t.Fatalf("banner = %q", a.gateway.LastError())
	}
	ticks := a.updater.Snapshot().TickCount
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ds, store, err := openSnapshot(c)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if got := store.Load("", time.Now()).TickCount; got != ticks {
		t.Fatalf("persisted %d ticks, want %d", got, ticks)
	}

	arch, err := openArchive(ctx, c)
	if err != nil {
		t.Fatal(err)
	}
	defer arch.Close()
	recs, err := arch.History(ctx, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) == 0 {
		t.Fatal("nothing archived")
	}
}

func TestSeedsAreStableWhenConfigured(t *testing.T) {
	c := &config.Config{Seed: 5}
	a, b := seeds(c)
	if a != 5 || b != 6 {
		t.Fatalf("seeds = %d, %d", a, b)
	}
}
