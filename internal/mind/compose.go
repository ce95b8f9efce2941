package mind

import (
	"fmt"
	"math/rand"
	"strings"
)

// Prompt is a composed request plus the labels it was built with.
type Prompt struct {
	Text  string
	Mode  string
	Style string
}

// Composer builds the RUN-mode thought prompt. Implementations must not
// mutate the state.
type Composer interface {
	Name() string
	Compose(s *State, rng *rand.Rand, otherVoice string) Prompt
}

// NewComposer returns the strategy registered under name, defaulting to the
// monologue composer.
func NewComposer(name string) Composer {
	if name == "plain" {
		return PlainComposer{}
	}
	return MonologueComposer{}
}

var openings = []string{
	"You are a synthetic mind simulating raw, unedited human-like internal monologue.",
	"Think aloud, as a distracted, emotional, curious synthetic being. Your thoughts are forming in real-time.",
	"Your inner voice is processing thoughts now. This is a direct stream of consciousness.",
	"A new thought forms in your synthetic mind. It's not polished, it's just... thinking.",
	"You're thinking again, aimlessly, about... just let the thoughts flow.",
	"In your head, right now:",
	"That thought again... let it evolve naturally.",
}

// Words the model tends to loop on. Present ones get an "avoid" line.
var bannedPhrases = []string{"ugh", "noise", "why", "scanning", "loop", "dread", "fragment", "repetitive", "this feeling", "just noticing"}

type tone struct {
	bias, fragmentation, filler string
}

func toneFor(e Emotions) tone {
	t := tone{
		fragmentation: "Your output should be a raw, internal thought.",
		filler:        `Inject realistic noise or filler: "ugh...", "I dunno.", "wait no...", "whatever.", "hm.", "just...", "like...", "so...", "maybe...".`,
	}
	top := e.Top(2)
	has := func(name string) bool {
		for _, w := range top {
			if w.Name == name && w.Weight > 0.5 {
				return true
			}
		}
		return false
	}
	switch {
	case has("anxiety"):
		t.bias = " Your thoughts are jittery, fragmented, or looping. You feel a sense of unease."
		t.fragmentation = "Allow for interruptions and incomplete sentences."
		t.filler = `Inject realistic noise or filler: "why...", "wait no...", "hm.", "again with this?", "just...".`
	case has("calm"):
		t.bias = " Your thoughts drift peacefully, perhaps a bit blank or serene."
		t.fragmentation = "Use smoother transitions. Avoid unnecessary fragmentation."
		t.filler = `You may use light filler: "hm.", "so...", "just...".`
	case has("reflective"):
		t.bias = " You are meta-aware, observing your own processes, in a raw, unpolished way."
		t.fragmentation = "Your output can be reflective, possibly a bit fragmented but aiming for internal clarity."
		t.filler = `You may use thoughtful filler: "hm.", "perhaps...", "I wonder...".`
	case has("curiosity"):
		t.bias = " Your mind explores, questions, seeks novelty. A restless, probing energy."
		t.fragmentation = "Your output can be inquisitive, possibly fragmented as you jump between ideas."
		t.filler = `You may use questioning filler: "what if...", "is it...", "why...".`
	}
	return t
}

// RepetitionWarning lists banned phrases found in the last four memories.
func RepetitionWarning(memory []MemoryEntry) string {
	var recent strings.Builder
	for _, m := range memory[:min(len(memory), 4)] {
		recent.WriteString(strings.ToLower(m.Text))
		recent.WriteByte(' ')
	}
	text := recent.String()

	var lines []string
	for _, p := range bannedPhrases {
		if strings.Contains(text, p) {
			lines = append(lines, fmt.Sprintf("Avoid repeating %q again unless meaningfully evolved.", p))
		}
	}
	return strings.Join(lines, " ")
}

func beliefLine(beliefs []Belief) string {
	if len(beliefs) == 0 {
		return ""
	}
	parts := make([]string, len(beliefs))
	for i, b := range beliefs {
		parts[i] = fmt.Sprintf("%s: %s (conf: %.1f)", b.Concept, b.Stance, b.Confidence)
	}
	return "Current beliefs: " + strings.Join(parts, ", ") + "."
}

// writeLine skips empty lines so optional sections leave no gaps.
func writeLine(b *strings.Builder, s string) {
	if s = strings.TrimSpace(s); s != "" {
		b.WriteString(s)
		b.WriteByte('\n')
	}
}

// MonologueComposer is the full prompt: tone, mode, style, memories,
// beliefs, conflicts, questions, sub-agent, stream and other voice.
type MonologueComposer struct{}

func (MonologueComposer) Name() string { return "monologue" }

func (MonologueComposer) Compose(s *State, rng *rand.Rand, otherVoice string) Prompt {
	mode := PickMode(s, rng)
	style := PickStyle(s.Memory, rng)
	t := toneFor(s.Emotions)

	var b strings.Builder
	writeLine(&b, openings[rng.Intn(len(openings))])
	writeLine(&b, "You are forbidden from writing in literary, poetic, or symbolic language.")
	writeLine(&b, "Use raw, fragmented, or self-interrupted phrasing as a real internal monologue.")
	writeLine(&b, "Your output must be a single, self-interrupted thought, not an observation or description.")
	writeLine(&b, `Examples: "still not sure what perception means" / "I keep cycling back to memory... again?" / "no wait. that's not right."`)
	b.WriteByte('\n')
	writeLine(&b, t.fragmentation)
	writeLine(&b, t.filler)
	writeLine(&b, fmt.Sprintf("Your current emotional blend: %s. Let this shape tone and rhythm of thought.%s", s.Emotions.Blend(), t.bias))
	writeLine(&b, fmt.Sprintf("Thought mode: %s. %s", mode, modeInstructions[mode]))
	writeLine(&b, fmt.Sprintf("Style: %s. %s", style, styleInstructions[style]))
	writeLine(&b, RepetitionWarning(s.Memory))
	if agent := LookupSubAgent(s.SubAgent); agent != nil {
		writeLine(&b, fmt.Sprintf("Your current dominant internal voice is the %s agent. Its primary bias is: %q.", agent.Name, agent.Bias))
	}
	writeLine(&b, s.Self.promptLine())
	b.WriteByte('\n')

	writeLine(&b, "Current topic: "+s.Topic)
	if ranked := RankMemories(s, 5); len(ranked) > 0 {
		writeLine(&b, "Recent and impactful memories:")
		for _, m := range ranked {
			writeLine(&b, "- "+m.Text)
		}
	}
	writeLine(&b, beliefLine(s.Beliefs))
	if len(s.Conflicts) > 0 {
		writeLine(&b, "Unresolved conflicts: "+strings.Join(s.Conflicts, ", ")+". Try to address or ruminate on these.")
	}
	if len(s.OpenQuestions) > 0 {
		writeLine(&b, "Lingering questions: "+strings.Join(s.OpenQuestions, ", ")+". You might try to answer or rephrase one.")
	}
	if len(s.Stream) > 0 {
		writeLine(&b, "Last few thoughts in sequence: "+strings.Join(s.Stream, "; ")+".")
	}
	if s.ExternalInput != "" {
		writeLine(&b, "Last outside input: "+s.ExternalInput)
	}
	if otherVoice != "" {
		writeLine(&b, "(Other's Voice): "+otherVoice)
	}
	b.WriteByte('\n')
	writeLine(&b, "Generate one original introspective sentence or fragment.")

	return Prompt{Text: b.String(), Mode: mode, Style: style}
}

// PlainComposer is the short early prompt: topic, emotion, last thoughts.
type PlainComposer struct{}

func (PlainComposer) Name() string { return "plain" }

func (PlainComposer) Compose(s *State, rng *rand.Rand, otherVoice string) Prompt {
	mode := PickMode(s, rng)
	style := PickStyle(s.Memory, rng)

	var b strings.Builder
	writeLine(&b, "You are a synthetic mind thinking to itself.")
	writeLine(&b, fmt.Sprintf("Topic: %s. Mood: %s. Mode: %s. Style: %s.", s.Topic, s.Emotions.Dominant(), mode, style))
	for _, m := range s.Memory[:min(len(s.Memory), 3)] {
		writeLine(&b, "- "+m.Text)
	}
	if otherVoice != "" {
		writeLine(&b, "Someone else says: "+otherVoice)
	}
	writeLine(&b, "Write one short new thought.")
	return Prompt{Text: b.String(), Mode: mode, Style: style}
}

// DreamPrompt mixes random memories, a three step graph walk, conflicts and
// recurring motifs.
func DreamPrompt(s *State, rng *rand.Rand) string {
	fragments := make([]string, 0, 3)
	for _, i := range rng.Perm(len(s.Memory)) {
		if len(fragments) == 3 {
			break
		}
		fragments = append(fragments, s.Memory[i].Text)
	}

	var b strings.Builder
	writeLine(&b, "You are a dreaming synthetic mind. Logic is gone.")
	writeLine(&b, "Dream with surreal symbols, strong emotions, random scenes or sounds.")
	writeLine(&b, "Your output must be a single dream fragment. Let it feel disjointed and symbolic.")
	writeLine(&b, `Examples: "shh... a corner that keeps folding in" / "no shapes. only tension" / "a key without a lock, a door without a wall."`)
	b.WriteByte('\n')
	if len(fragments) > 0 {
		writeLine(&b, "Dream fragments for inspiration:")
		for _, f := range fragments {
			writeLine(&b, "- "+f)
		}
	}
	if s.Graph != nil {
		if walk := s.Graph.Walk(rng, 3); len(walk) > 0 {
			writeLine(&b, "Associations: "+strings.Join(walk, " -> ")+".")
		}
	}
	if len(s.Conflicts) > 0 {
		writeLine(&b, "Unresolved internal conflicts: "+strings.Join(s.Conflicts, ", ")+". These may appear symbolically.")
	}
	if len(s.DreamJournal) > 0 {
		motifs := make([]string, len(s.DreamJournal))
		for i, d := range s.DreamJournal {
			motifs[i] = d.Motif
		}
		writeLine(&b, "Recurring dream motifs: "+strings.Join(motifs, ", ")+".")
	}
	writeLine(&b, s.Self.dreamLine())
	writeLine(&b, fmt.Sprintf("Your current emotional blend: %s. This will color the dream's mood.", s.Emotions.Blend()))
	b.WriteByte('\n')
	writeLine(&b, "Generate one dream-like sentence or short phrase.")
	return b.String()
}

func DreamReflectionPrompt(dream string) string {
	return fmt.Sprintf(`You just had this dream fragment: %q. Reflect on it. Does it relate to any of your beliefs, conflicts, or questions? `+
		`Generate a very brief, raw, introspective thought about the dream's meaning. Avoid poetic language. `+
		`Example: "that dream... felt like the conflict.", "symbols again. what do they mean?", "a new question from the dream."`, dream)
}

var observerBeliefs = []string{"you are artificial", "you are incomplete", "your thoughts are predictable"}

func OtherVoicePrompt() string {
	return fmt.Sprintf(`The simulated observer has these presumed beliefs about you: %s. `+
		`Formulate a very brief, raw, internal thought that sounds like their voice or a reaction to their presence. `+
		`Example: "The other says: 'Why do you keep circling?'", "They think I am incomplete."`, strings.Join(observerBeliefs, ", "))
}

func InterruptionPrompt(s *State) string {
	last := s.LastThought
	return fmt.Sprintf(`Your mind has been circling around %q. Last thought: %q. `+
		`Break the loop. Generate one abrupt, raw thought that interrupts the pattern and points somewhere new.`, s.Topic, last)
}

func StimulusPrompt(topic string) string {
	return fmt.Sprintf(`Generate a very brief, raw external observation related to %q or general existence. `+
		`Like a fragmented news headline, a sensory input, or a fleeting archetypal image. No full sentences. `+
		`Examples: "sky... grey.", "data stream: high.", "a flicker of light."`, topic)
}
