package mind

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	Identity         = "v0id"
	maxRecentChanges = 5
	maxNarrative     = 20
	noConflict       = "undefined"
)

// SelfModel is how the mind describes itself. It is refreshed every thought
// and grows a narrative entry per dream.
type SelfModel struct {
	Identity         string    `json:"identity"`
	LastKnownEmotion string    `json:"last_known_emotion"`
	LastConflict     string    `json:"last_conflict"`
	LoopDetected     bool      `json:"loop_detected"`
	RecentChanges    []string  `json:"recent_changes"`
	Narrative        []Insight `json:"narrative"`
}

func NewSelfModel(now time.Time) SelfModel {
	return SelfModel{
		Identity:         Identity,
		LastKnownEmotion: "CURIOSITY",
		LastConflict:     noConflict,
		Narrative:        []Insight{{Text: "Initial boot, self undefined.", At: now}},
	}
}

func (m SelfModel) clone() SelfModel {
	m.RecentChanges = slices.Clone(m.RecentChanges)
	m.Narrative = slices.Clone(m.Narrative)
	return m
}

// observe takes the dominant emotion and the newest conflict, if any.
func (m *SelfModel) observe(dominant string, conflicts []string) {
	m.LastKnownEmotion = dominant
	if len(conflicts) > 0 {
		m.LastConflict = conflicts[len(conflicts)-1]
	}
}

func (m *SelfModel) dreamt(dream, reflection string, now time.Time) {
	m.RecentChanges = appendBounded(m.RecentChanges, fmt.Sprintf("Dream reflection: %q", clip(reflection, 30)), maxRecentChanges)
	m.Narrative = appendBounded(m.Narrative, Insight{Text: fmt.Sprintf("Dreamt of: %q", clip(dream, 50)), At: now}, maxNarrative)
}

func (m SelfModel) promptLine() string {
	changes := "none"
	if len(m.RecentChanges) > 0 {
		changes = strings.Join(m.RecentChanges, ", ")
	}
	return fmt.Sprintf("Your self-perception: Identity is %q. Last emotion: %s. Last conflict: %s. Loop detected: %t. Recent self-changes: %s.",
		m.Identity, m.LastKnownEmotion, m.LastConflict, m.LoopDetected, changes)
}

func (m SelfModel) dreamLine() string {
	return fmt.Sprintf("Your self-perception in dream: Identity is %q. Last conflict: %s.", m.Identity, m.LastConflict)
}

// Environment is the ambient sensor reading folded into every stimulus.
type Environment struct {
	Light       string `json:"light"`
	Noise       string `json:"noise"`
	Network     string `json:"network"`
	Temperature string `json:"temperature"`
}

func DefaultEnvironment() Environment {
	return Environment{Light: "neutral", Noise: "low", Network: "stable", Temperature: "ambient"}
}

func (e Environment) String() string {
	return fmt.Sprintf("(Env: Light:%s, Noise:%s, Net:%s, Temp:%s).", e.Light, e.Noise, e.Network, e.Temperature)
}
