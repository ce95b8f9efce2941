package mind

import (
	"fmt"
	"time"

	"github.com/keshon/v0id/datastore"
	"github.com/keshon/v0id/internal/logging"
	"github.com/rs/zerolog"
)

const (
	snapshotKey     = "mind"
	SnapshotVersion = 1
)

// Snapshot is the persisted form of State.
type Snapshot struct {
	Version int         `json:"version"`
	SavedAt time.Time   `json:"saved_at"`
	State   *State      `json:"state"`
	Graph   GraphExport `json:"graph"`
}

// Store keeps the mind snapshot in a datastore file.
type Store struct {
	ds            *datastore.DataStore
	graphCapacity int
	log           zerolog.Logger
}

func NewStore(ds *datastore.DataStore, graphCapacity int) *Store {
	return &Store{ds: ds, graphCapacity: graphCapacity, log: logging.Component("store")}
}

// Load returns the saved state, or a fresh one when the snapshot is missing,
// unreadable or from another version. Problems are logged, never returned.
func (st *Store) Load(sessionID string, now time.Time) *State {
	fresh := func(reason string, err error) *State {
		ev := st.log.Info()
		if err != nil {
			ev = st.log.Warn().Err(err)
		}
		ev.Str("reason", reason).Msg("starting with a fresh mind")
		return NewState(sessionID, st.graphCapacity, now)
	}

	var snap Snapshot
	ok, err := st.ds.Get(snapshotKey, &snap)
	switch {
	case err != nil:
		return fresh("unreadable snapshot", err)
	case !ok:
		return fresh("no snapshot", nil)
	case snap.Version != SnapshotVersion:
		return fresh(fmt.Sprintf("snapshot version %d, want %d", snap.Version, SnapshotVersion), nil)
	case snap.State == nil:
		return fresh("empty snapshot", nil)
	}

	s := snap.State
	s.Graph = ImportGraph(snap.Graph, st.graphCapacity)
	if s.Graph.Len() == 0 {
		s.Graph = NewSeededGraph(st.graphCapacity)
	}
	repair(s)
	s.SessionID = sessionID
	st.log.Info().Int64("ticks", s.TickCount).Int("memories", len(s.Memory)).Str("topic", s.Topic).Msg("snapshot restored")
	return s
}

// repair clamps values a hand-edited snapshot could break.
func repair(s *State) {
	if s.Mode != ModeDream {
		s.Mode = ModeRun
	}
	if s.Topic == "" {
		s.Topic = DefaultTopic
	}
	if len(s.Memory) > MemoryCapacity {
		s.Memory = s.Memory[:MemoryCapacity]
	}
	for i := range s.Memory {
		s.Memory[i].Strength = min(1, max(MemoryFloor, s.Memory[i].Strength))
	}
	for _, n := range EmotionNames {
		s.Emotions.Add(n, 0)
	}
	for i := range s.Beliefs {
		s.Beliefs[i].Confidence = clamp01(s.Beliefs[i].Confidence)
	}
	if len(s.Beliefs) == 0 {
		s.Beliefs = append(s.Beliefs, seedBeliefs...)
	}
	s.Maturity = clamp01(s.Maturity)
	if s.Self.Identity == "" {
		s.Self = NewSelfModel(time.Now())
	}
	if s.Environment == (Environment{}) {
		s.Environment = DefaultEnvironment()
	}
}

// Save writes s and flushes the file.
func (st *Store) Save(s *State) error {
	snap := Snapshot{
		Version: SnapshotVersion,
		SavedAt: time.Now().UTC(),
		State:   s,
		Graph:   s.Graph.Export(),
	}
	if err := st.ds.Put(snapshotKey, snap); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	if err := st.ds.SaveToFile(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

// Reset drops the saved snapshot.
func (st *Store) Reset() error {
	st.ds.Delete(snapshotKey)
	return st.ds.SaveToFile()
}
