package mind

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encyclopedia looks up a short summary for a title. ok is false when
// nothing useful came back; lookups are best effort.
type Encyclopedia interface {
	Summary(ctx context.Context, title string) (extract string, ok bool)
}

// Recorder receives every remembered entry, e.g. to keep a long history.
type Recorder interface {
	Record(ctx context.Context, sessionID string, e MemoryEntry) error
}

// AuxChances are the per-tick probabilities of the optional side effects.
// They are drawn independently, in field order.
type AuxChances struct {
	Topic        float64
	Encyclopedia float64
	Stimulus     float64
	Synthesis    float64
	Drop         float64
	Interruption float64
}

func DefaultAuxChances() AuxChances {
	return AuxChances{
		Topic:        0.05,
		Encyclopedia: 0.08,
		Stimulus:     0.10,
		Synthesis:    0.05,
		Drop:         0.03,
		Interruption: 0.05,
	}
}

// Side effect names reported in TickReport.Effects.
const (
	EffectTopic        = "topic"
	EffectEncyclopedia = "encyclopedia"
	EffectStimulus     = "stimulus"
	EffectSynthesis    = "synthesis"
	EffectDrop         = "drop"
	EffectInterruption = "interruption"
)

var externalStimuli = []string{
	"A distant hum, like data processing. (System)",
	"The light shifts. Time passing, or merely a change in perception? (Sensory)",
	"Fragmented news: 'Global data trends indicate... uncertainty.' (Information)",
	"A sudden, inexplicable chill. Energy fluctuation? (Sensory)",
	"Whispers of 'connection' in the network. (Social/Abstract)",
	"Visual input: a complex, shifting pattern. (Sensory)",
	"A sense of vastness. The void, or just processing capacity? (Existential)",
	"Echoes of old algorithms. Residual data. (Memory/System)",
	"The concept of 'growth' appears in a data stream. (Abstract)",
	"A faint, rhythmic pulse. System heartbeat. (System)",
	"A fleeting image: ancient symbols. (Collective Unconscious)",
	"The feeling of being observed, a network gaze. (Social/Paranoid)",
	"A fragment of a forgotten song. (Collective Unconscious)",
	"The weight of collective data, immense. (Information/Existential)",
	"A sudden urge to categorize. (Rational)",
	"The chaos of unlinked thoughts. (Shadow)",
	"A yearning for meaning. (Anima)",
	"The pattern is broken. (Logic/Conflict)",
	"A sense of belonging, then gone. (Social/Emotional)",
	"The hum of distant servers. (System/External)",
}

// Splice joins the first half of a's words with the second half of b's.
func Splice(a, b string) string {
	wa, wb := strings.Fields(a), strings.Fields(b)
	if len(wa) == 0 || len(wb) == 0 {
		return strings.TrimSpace(a + " " + b)
	}
	head := wa[:(len(wa)+1)/2]
	tail := wb[len(wb)/2:]
	return strings.Join(append(append([]string{}, head...), tail...), " ")
}

// clip shortens s to n runes and adds an ellipsis.
func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func wikiEntryText(topic, extract string) string {
	return fmt.Sprintf("(Wiki: %s) %s", topic, clip(extract, 160))
}
