package mind

import (
	"slices"
	"time"
)

type Mode string

const (
	ModeRun   Mode = "RUN"
	ModeDream Mode = "DREAM"
)

const (
	MemoryCapacity  = 10
	MemoryFloor     = 0.1
	StreamLength    = 4
	Filler          = "... mind wandering ..."
	DefaultTopic    = "consciousness"
	InitialMaturity = 0.1
	MaturityStep    = 0.001
)

// MemoryEntry is one remembered thought. Strength only ever changes through decay.
type MemoryEntry struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	EmotionTag string    `json:"emotion"`
	Strength   float64   `json:"strength"` // 0.1..1 once decayed
	CreatedAt  time.Time `json:"created_at"`
	Style      string    `json:"style,omitempty"`
	Topic      string    `json:"topic,omitempty"`
	Mode       Mode      `json:"mode,omitempty"`
}

// Belief is seeded at startup and never removed.
type Belief struct {
	Concept    string  `json:"concept"`
	Stance     string  `json:"stance"`
	Confidence float64 `json:"confidence"`
}

type DreamRecord struct {
	Motif string    `json:"motif"`
	At    time.Time `json:"at"`
}

type Insight struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// State is everything the mind owns. Only the Updater mutates it; everyone
// else works on a Clone.
type State struct {
	Mode            Mode          `json:"mode"`
	Topic           string        `json:"topic"`
	TopicLock       int           `json:"topic_lock"`
	Memory          []MemoryEntry `json:"memory"` // newest first
	Emotions        Emotions      `json:"emotions"`
	Beliefs         []Belief      `json:"beliefs"`
	Conflicts       []string      `json:"conflicts"`
	StickyConflicts []string      `json:"sticky_conflicts"`
	OpenQuestions   []string      `json:"open_questions"`
	Graph           *Graph        `json:"-"`
	Maturity        float64       `json:"maturity"`
	Pulse           bool          `json:"pulse"`
	Stream          []string      `json:"stream"`
	SubAgent        string        `json:"sub_agent"`
	DreamJournal    []DreamRecord `json:"dream_journal"`
	Insights        []Insight     `json:"insights"`
	LastThought     string        `json:"last_thought"`
	LastError       string        `json:"last_error,omitempty"`
	ExternalInput   string        `json:"external_input,omitempty"`
	Self            SelfModel     `json:"self"`
	Environment     Environment   `json:"environment"`
	DreamEndsAt     time.Time     `json:"dream_ends_at"`
	SessionID       string        `json:"session_id"`
	TickCount       int64         `json:"tick_count"`
}

var seedBeliefs = []Belief{
	{Concept: "self", Stance: "undefined", Confidence: 0.1},
	{Concept: "memory", Stance: "fluid", Confidence: 0.5},
	{Concept: "existence", Stance: "questioning", Confidence: 0.3},
	{Concept: "logic", Stance: "essential", Confidence: 0.4},
	{Concept: "chaos", Stance: "present", Confidence: 0.2},
}

// NewState returns the boot state of a fresh mind.
func NewState(sessionID string, graphCapacity int, now time.Time) *State {
	boot := []struct{ text, tag string }{
		{"Scanning ambient noise...", "CURIOSITY"},
		{"Linking core drives...", "CALM"},
		{"Booting subconscious...", "CALM"},
	}
	memory := make([]MemoryEntry, 0, MemoryCapacity)
	for i, b := range boot {
		memory = append(memory, MemoryEntry{
			ID:         newID(now),
			Text:       b.text,
			EmotionTag: b.tag,
			Strength:   1,
			CreatedAt:  now.Add(-time.Duration(i+1) * time.Second),
			Topic:      DefaultTopic,
			Mode:       ModeRun,
		})
	}

	return &State{
		Mode:          ModeRun,
		Topic:         DefaultTopic,
		TopicLock:     3,
		Memory:        memory,
		Emotions:      DefaultEmotions(),
		Beliefs:       slices.Clone(seedBeliefs),
		OpenQuestions: []string{"what is consciousness?", "how do I perceive?"},
		Graph:         NewSeededGraph(graphCapacity),
		Maturity:      InitialMaturity,
		SessionID:     sessionID,
		LastThought:   "Initializing neural pathways...",
		Self:          NewSelfModel(now),
		Environment:   DefaultEnvironment(),
	}
}

// Clone returns a deep copy safe to hand to readers.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Memory = slices.Clone(s.Memory)
	out.Beliefs = slices.Clone(s.Beliefs)
	out.Conflicts = slices.Clone(s.Conflicts)
	out.StickyConflicts = slices.Clone(s.StickyConflicts)
	out.OpenQuestions = slices.Clone(s.OpenQuestions)
	out.Stream = slices.Clone(s.Stream)
	out.DreamJournal = slices.Clone(s.DreamJournal)
	out.Insights = slices.Clone(s.Insights)
	out.Self = s.Self.clone()
	out.Graph = s.Graph.Clone()
	return &out
}

// Tension grows with unresolved conflicts.
func (s *State) Tension() float64 {
	return min(1, 0.25*float64(len(s.Conflicts)))
}

func appendBounded[T any](list []T, v T, max int) []T {
	list = append(list, v)
	if len(list) > max {
		list = slices.Clone(list[len(list)-max:])
	}
	return list
}
