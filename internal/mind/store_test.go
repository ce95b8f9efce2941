package mind

import (
	"context"
	"math/rand"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/keshon/v0id/datastore"
)

func openStore(t *testing.T, path string) (*Store, *datastore.DataStore) {
	t.Helper()
	ds, err := datastore.New(path)
	if err != nil {
		t.Fatalf("datastore: %v", err)
	}
	return NewStore(ds, 0), ds
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mind.json")
	st, ds := openStore(t, path)

	s := NewState("first", 0, time.Now())
	s.Topic = "time"
	s.TickCount = 42
	s.StickyConflicts = []string{"dream-induced conflict"}
	s.Self.dreamt("a key without a lock", "that dream... felt like the conflict.", time.Now())
	s.Graph.Observe("quiet static under the floor")
	if err := st.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ds.Close()

	st, ds = openStore(t, path)
	defer ds.Close()
	got := st.Load("second", time.Now())

	if got.SessionID != "second" {
		t.Errorf("session = %s, want the new one", got.SessionID)
	}
	if got.Topic != "time" || got.TickCount != 42 {
		t.Errorf("topic %s ticks %d", got.Topic, got.TickCount)
	}
	if len(got.Memory) != len(s.Memory) || got.Memory[0].Text != s.Memory[0].Text {
		t.Errorf("memory %+v", got.Memory)
	}
	if !slices.Equal(got.StickyConflicts, s.StickyConflicts) {
		t.Errorf("sticky %v", got.StickyConflicts)
	}
	if !slices.Equal(got.Self.RecentChanges, s.Self.RecentChanges) || len(got.Self.Narrative) != 2 {
		t.Errorf("self model %+v", got.Self)
	}
	if !got.Graph.Has("static") || got.Graph.Edges() != s.Graph.Edges() {
		t.Errorf("graph lost: %d edges, want %d", got.Graph.Edges(), s.Graph.Edges())
	}
}

func TestStoreFallsBackToFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mind.json")
	st, ds := openStore(t, path)
	defer ds.Close()

	if s := st.Load("a", time.Now()); s.TickCount != 0 || len(s.Memory) != 3 {
		t.Fatalf("missing snapshot: %+v", s)
	}

	if err := ds.Put(snapshotKey, Snapshot{Version: SnapshotVersion + 1, State: &State{TickCount: 9}}); err != nil {
		t.Fatal(err)
	}
	if s := st.Load("a", time.Now()); s.TickCount != 0 {
		t.Fatalf("version mismatch restored tick %d", s.TickCount)
	}

	if err := ds.Put(snapshotKey, "not a snapshot"); err != nil {
		t.Fatal(err)
	}
	if s := st.Load("a", time.Now()); s.TickCount != 0 || s.Graph.Len() == 0 {
		t.Fatalf("garbage snapshot: %+v", s)
	}
}

func TestStoreRepairsOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mind.json")
	st, ds := openStore(t, path)
	defer ds.Close()

	bad := NewState("x", 0, time.Now())
	bad.Mode = "SLEEPWALKING"
	bad.Topic = ""
	bad.Maturity = 3
	bad.Memory[0].Strength = 7
	bad.Emotions.Curiosity = -2
	bad.Self = SelfModel{}
	bad.Environment = Environment{}
	if err := st.Save(bad); err != nil {
		t.Fatal(err)
	}

	s := st.Load("x", time.Now())
	if s.Mode != ModeRun || s.Topic != DefaultTopic || s.Maturity != 1 {
		t.Fatalf("mode %s topic %q maturity %v", s.Mode, s.Topic, s.Maturity)
	}
	if s.Memory[0].Strength != 1 || s.Emotions.Curiosity != 0 {
		t.Fatalf("strength %v curiosity %v", s.Memory[0].Strength, s.Emotions.Curiosity)
	}
	if s.Self.Identity != Identity || s.Environment != DefaultEnvironment() {
		t.Fatalf("self %+v env %+v", s.Self, s.Environment)
	}
}

func TestRunnerThinkOnceAndReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mind.json")
	st, ds := openStore(t, path)
	defer ds.Close()

	u := NewUpdater(st.Load("s", time.Now()), Deps{Gateway: &uniqueGateway{}, Rand: rand.New(rand.NewSource(1))}, quietOptions())
	r := NewRunner(u, st, time.Second)

	for i := 0; i < 3; i++ {
		r.ThinkOnce(context.Background())
	}
	want := u.Snapshot().TickCount
	if want == 0 {
		t.Fatal("no tick ran")
	}
	if got := st.Load("s", time.Now()).TickCount; got != want {
		t.Fatalf("persisted ticks = %d, want %d", got, want)
	}

	if err := r.Reset("s2", 0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if u.Snapshot().TickCount != 0 {
		t.Fatal("updater not reset")
	}
	if got := st.Load("s2", time.Now()).TickCount; got != 0 {
		t.Fatalf("snapshot after reset has %d ticks", got)
	}
}
