package mind

import (
	"context"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/rs/zerolog"
)

// Generator is the text gateway as seen by the mind: it always answers.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
	LastError() string
}

const (
	otherVoiceChance   = 0.15
	llmStimulusChance  = 0.4
	maxOpenQuestions   = 8
	maxJournal         = 20
	maxInsights        = 20
	fillerNovelty      = 0.2
	acceptedNovelty    = 1.0
	dreamConflictLabel = "dream-induced conflict"
	defaultDreamLength = 8 * time.Second
	defaultMaxAttempts = 3
)

type Options struct {
	MaxAttempts       int
	DreamDuration     time.Duration
	NormalizeEmotions bool
	Chances           AuxChances
	Rules             []ConflictRule
}

func DefaultOptions() Options {
	return Options{
		MaxAttempts:       defaultMaxAttempts,
		DreamDuration:     defaultDreamLength,
		NormalizeEmotions: true,
		Chances:           DefaultAuxChances(),
		Rules:             DefaultConflictRules(),
	}
}

// Deps are the collaborators of an Updater. Encyclopedia and Recorder may be nil.
type Deps struct {
	Gateway      Generator
	Composer     Composer
	Encyclopedia Encyclopedia
	Recorder     Recorder
	Budget       *CallBudget
	Rand         *rand.Rand
	Now          func() time.Time
}

// TickReport summarises what one Tick or Wake did.
type TickReport struct {
	Tick     int64
	Mode     Mode
	Thought  string
	Kind     string // thought mode, "dream" or "wake"
	Style    string
	Topic    string
	Attempts int
	Filler   bool
	Dreamed  bool
	Woke     bool
	Skipped  bool
	Effects  []string
	Took     time.Duration
}

// Updater owns the mind state. Tick and Wake are serialised; readers get deep
// copies through Snapshot and never wait on a model call.
type Updater struct {
	deps Deps
	opts Options
	log  zerolog.Logger

	tickMu sync.Mutex // serialises Tick/Wake
	mu     sync.RWMutex
	state  *State
}

func NewUpdater(state *State, deps Deps, opts Options) *Updater {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Composer == nil {
		deps.Composer = MonologueComposer{}
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.DreamDuration <= 0 {
		opts.DreamDuration = defaultDreamLength
	}
	if opts.Rules == nil {
		opts.Rules = DefaultConflictRules()
	}
	if state.Graph == nil {
		state.Graph = NewSeededGraph(DefaultGraphCapacity)
	}
	state.Conflicts = mergeConflicts(DetectConflicts(state.Beliefs, opts.Rules), state.StickyConflicts)
	return &Updater{deps: deps, opts: opts, state: state, log: logging.Component("mind")}
}

// Snapshot returns a deep copy of the current state.
func (u *Updater) Snapshot() *State {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.state.Clone()
}

// DreamEndsAt reports whether the mind is dreaming and when it should wake.
func (u *Updater) DreamEndsAt() (time.Time, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.state.DreamEndsAt, u.state.Mode == ModeDream
}

// Replace swaps the whole state, e.g. after a reset.
func (u *Updater) Replace(s *State) {
	u.tickMu.Lock()
	defer u.tickMu.Unlock()
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

func (u *Updater) commit(s *State) {
	u.mu.Lock()
	u.state = s
	u.mu.Unlock()
}

// tickRun carries per-tick scratch data.
type tickRun struct {
	s       *State
	report  TickReport
	entries []MemoryEntry
}

// remember prepends e, decaying older entries by rate when rate > 0, and
// enforces capacity.
func (t *tickRun) remember(e MemoryEntry, rate float64) {
	if rate > 0 {
		for i := range t.s.Memory {
			t.s.Memory[i].Strength = min(1, max(MemoryFloor, t.s.Memory[i].Strength*rate))
		}
	}
	t.s.Memory = append([]MemoryEntry{e}, t.s.Memory...)
	if len(t.s.Memory) > MemoryCapacity {
		t.s.Memory = t.s.Memory[:MemoryCapacity]
	}
	t.entries = append(t.entries, e)
}

func (u *Updater) entry(s *State, text, tag string, strength float64, style string) MemoryEntry {
	now := u.deps.Now()
	return MemoryEntry{
		ID:         newID(now),
		Text:       text,
		EmotionTag: tag,
		Strength:   strength,
		CreatedAt:  now,
		Style:      style,
		Topic:      s.Topic,
		Mode:       s.Mode,
	}
}

// Tick runs one cycle. While dreaming, a tick past the wake deadline wakes
// the mind first; an earlier tick is skipped.
func (u *Updater) Tick(ctx context.Context) TickReport {
	u.tickMu.Lock()
	defer u.tickMu.Unlock()

	start := u.deps.Now()
	t := &tickRun{s: u.Snapshot()}
	s := t.s

	if s.Mode == ModeDream {
		if start.Before(s.DreamEndsAt) {
			u.log.Debug().Time("wake_at", s.DreamEndsAt).Msg("tick skipped, still dreaming")
			return TickReport{Tick: s.TickCount, Mode: s.Mode, Skipped: true}
		}
		u.wake(s)
		t.report.Woke = true
	}

	rng := u.deps.Rand
	s.TickCount++
	s.Pulse = !s.Pulse
	s.Maturity = min(1, s.Maturity+MaturityStep)
	s.SubAgent = selectSubAgent(s.Tension(), rng)
	mods := Modulate(s.Emotions, s.Maturity)

	if rng.Float64() < mods.DreamChance {
		u.dream(ctx, t)
	} else {
		u.think(ctx, t, mods)
		u.auxiliary(ctx, t)
	}

	s.LastError = u.deps.Gateway.LastError()
	t.report.Tick = s.TickCount
	t.report.Mode = s.Mode
	t.report.Topic = s.Topic
	t.report.Took = u.deps.Now().Sub(start)
	u.commit(s)
	u.record(ctx, s.SessionID, t.entries)

	u.log.Info().
		Int64("tick", t.report.Tick).
		Str("mode", string(t.report.Mode)).
		Str("kind", t.report.Kind).
		Str("topic", s.Topic).
		Str("agent", s.SubAgent).
		Int("attempts", t.report.Attempts).
		Bool("filler", t.report.Filler).
		Strs("effects", t.report.Effects).
		Str("thought", logging.Truncate(t.report.Thought, 120)).
		Msg("tick")
	return t.report
}

// Wake ends a dream. It reports false when the mind was not dreaming.
func (u *Updater) Wake(ctx context.Context) bool {
	u.tickMu.Lock()
	defer u.tickMu.Unlock()

	s := u.Snapshot()
	if s.Mode != ModeDream {
		return false
	}
	u.wake(s)
	u.commit(s)
	u.log.Info().Msg("woke from dream")
	return true
}

func (u *Updater) wake(s *State) {
	s.Mode = ModeRun
	s.DreamEndsAt = time.Time{}
	s.Emotions.Add("dreaming", -0.2)
	s.Emotions.Add("curiosity", 0.1)
}

func selectSubAgent(tension float64, rng *rand.Rand) string {
	switch {
	case tension > 0.6 && rng.Float64() < 0.7:
		return "Shadow"
	case tension < 0.3 && rng.Float64() < 0.5:
		return "Rational"
	default:
		return SubAgents[rng.Intn(len(SubAgents))].Name
	}
}

func (u *Updater) dream(ctx context.Context, t *tickRun) {
	s, rng := t.s, u.deps.Rand
	s.Mode = ModeDream
	s.SubAgent = "Anima"
	s.Emotions.Add("dreaming", 0.2)
	s.Emotions.Add("curiosity", -0.1)

	prompt := DreamPrompt(s, rng)
	logPrompt(u.log, "dream", prompt, nil)
	dreamText := u.deps.Gateway.Generate(ctx, prompt)
	t.remember(u.entry(s, dreamText, "DREAMING", 0.7, ""), 0)

	prompt = DreamReflectionPrompt(dreamText)
	logPrompt(u.log, "dream_reflection", prompt, nil)
	reflection := u.deps.Gateway.Generate(ctx, prompt)
	t.remember(u.entry(s, reflection, "REFLECTIVE", 0.6, ""), 0)

	now := u.deps.Now()
	lower := strings.ToLower(reflection)
	if strings.Contains(lower, "conflict") && !slices.Contains(s.StickyConflicts, dreamConflictLabel) {
		s.StickyConflicts = append(s.StickyConflicts, dreamConflictLabel)
	}
	if strings.Contains(lower, "question") {
		s.OpenQuestions = appendBounded(s.OpenQuestions, reflection, maxOpenQuestions)
	}
	s.Insights = appendBounded(s.Insights, Insight{Text: reflection, At: now}, maxInsights)
	s.DreamJournal = appendBounded(s.DreamJournal, DreamRecord{Motif: clip(dreamText, 50), At: now}, maxJournal)
	s.Stream = appendBounded(s.Stream, reflection, StreamLength)
	s.Conflicts = mergeConflicts(DetectConflicts(s.Beliefs, u.opts.Rules), s.StickyConflicts)
	s.Self.observe(s.Emotions.Dominant(), s.Conflicts)
	s.Self.dreamt(dreamText, reflection, now)
	s.DreamEndsAt = now.Add(u.opts.DreamDuration)
	s.LastThought = "(Dream Reflection): " + reflection

	t.report.Dreamed = true
	t.report.Kind = "dream"
	t.report.Thought = dreamText
}

func (u *Updater) think(ctx context.Context, t *tickRun, mods Modulators) {
	s, rng := t.s, u.deps.Rand

	var otherVoice string
	if rng.Float64() < otherVoiceChance && u.deps.Budget.Take(u.deps.Now()) {
		prompt := OtherVoicePrompt()
		logPrompt(u.log, "other_voice", prompt, nil)
		otherVoice = u.deps.Gateway.Generate(ctx, prompt)
	}

	var (
		thought  string
		prompt   Prompt
		accepted bool
	)
	for attempt := 1; attempt <= u.opts.MaxAttempts; attempt++ {
		t.report.Attempts = attempt
		prompt = u.deps.Composer.Compose(s, rng, otherVoice)
		logPrompt(u.log, "thought", prompt.Text, map[string]string{
			"mode": prompt.Mode, "style": prompt.Style, "attempt": strconv.Itoa(attempt),
		})
		candidate := u.deps.Gateway.Generate(ctx, prompt.Text)
		if !IsTooSimilar(candidate, s.Memory) {
			thought, accepted = candidate, true
			break
		}
		u.log.Debug().Int("attempt", attempt).Str("candidate", logging.Truncate(candidate, 80)).Msg("rejected as too similar")
		if ctx.Err() != nil {
			break
		}
	}
	if !accepted {
		thought = Filler
		t.report.Filler = true
	}

	t.remember(u.entry(s, thought, s.Emotions.Dominant(), 1, prompt.Style), mods.DecayRate)
	s.Emotions.Tick(rng, u.opts.NormalizeEmotions)

	novelty := fillerNovelty
	if accepted {
		novelty = acceptedNovelty
	}
	var bias float64
	if agent := LookupSubAgent(s.SubAgent); agent != nil {
		bias = agent.BeliefBias
	}
	UpdateBeliefs(s.Beliefs, thought, novelty, bias)

	s.Stream = appendBounded(s.Stream, thought, StreamLength)
	s.Graph.Observe(thought)

	if accepted && prompt.Mode == ModeResolution && len(s.StickyConflicts) > 0 {
		u.log.Info().Str("conflict", s.StickyConflicts[0]).Msg("conflict resolved")
		s.StickyConflicts = slices.Clone(s.StickyConflicts[1:])
	}
	s.Conflicts = mergeConflicts(DetectConflicts(s.Beliefs, u.opts.Rules), s.StickyConflicts)
	s.Self.observe(s.Emotions.Dominant(), s.Conflicts)
	s.Self.LoopDetected = !accepted

	s.TopicLock--
	switch {
	case !accepted:
		u.changeTopic(s, thought)
	case s.TopicLock <= 0:
		if rng.Float64() < mods.TopicSwitch {
			u.changeTopic(s, thought)
		} else {
			s.TopicLock = nextTopicLock(rng)
		}
	}

	s.LastThought = thought
	t.report.Kind = prompt.Mode
	t.report.Style = prompt.Style
	t.report.Thought = thought
}

func (u *Updater) changeTopic(s *State, thought string) {
	prev := s.Topic
	s.Topic = SelectTopic(s.Graph, thought, LookupSubAgent(s.SubAgent), prev, u.deps.Rand)
	s.TopicLock = nextTopicLock(u.deps.Rand)
	u.log.Debug().Str("from", prev).Str("to", s.Topic).Msg("topic changed")
}

// auxiliary draws each side effect independently, in a fixed order.
func (u *Updater) auxiliary(ctx context.Context, t *tickRun) {
	s, rng, c := t.s, u.deps.Rand, u.opts.Chances

	if rng.Float64() < c.Topic {
		u.changeTopic(s, s.LastThought)
		t.report.Effects = append(t.report.Effects, EffectTopic)
	}

	if rng.Float64() < c.Encyclopedia && u.deps.Encyclopedia != nil {
		if extract, ok := u.deps.Encyclopedia.Summary(ctx, s.Topic); ok {
			t.remember(u.entry(s, wikiEntryText(s.Topic, extract), "CURIOSITY", 0.4, ""), 0)
			t.report.Effects = append(t.report.Effects, EffectEncyclopedia)
		}
	}

	if rng.Float64() < c.Stimulus {
		obs := externalStimuli[rng.Intn(len(externalStimuli))]
		if rng.Float64() < llmStimulusChance && u.deps.Budget.Take(u.deps.Now()) {
			prompt := StimulusPrompt(s.Topic)
			logPrompt(u.log, "stimulus", prompt, nil)
			obs = u.deps.Gateway.Generate(ctx, prompt)
		}
		now := u.deps.Now()
		s.ExternalInput = "(External: " + now.Format("15:04:05 Monday") + ") " + s.Environment.String() + " " + obs
		t.remember(u.entry(s, s.ExternalInput, "CURIOSITY", 0.3, ""), 0)
		t.report.Effects = append(t.report.Effects, EffectStimulus)
	}

	if rng.Float64() < c.Synthesis && len(s.Memory) >= 2 {
		i := rng.Intn(len(s.Memory))
		j := (i + 1 + rng.Intn(len(s.Memory)-1)) % len(s.Memory)
		text := Splice(s.Memory[i].Text, s.Memory[j].Text)
		t.remember(u.entry(s, text, "REFLECTIVE", 0.5, ""), 0)
		t.report.Effects = append(t.report.Effects, EffectSynthesis)
	}

	if rng.Float64() < c.Drop && len(s.Memory) >= 2 {
		i := 1 + rng.Intn(len(s.Memory)-1)
		s.Memory = slices.Delete(s.Memory, i, i+1)
		t.report.Effects = append(t.report.Effects, EffectDrop)
	}

	if rng.Float64() < c.Interruption && u.deps.Budget.Take(u.deps.Now()) {
		prompt := InterruptionPrompt(s)
		logPrompt(u.log, "interruption", prompt, nil)
		text := u.deps.Gateway.Generate(ctx, prompt)
		t.remember(u.entry(s, text, s.Emotions.Dominant(), 0.8, ""), 0)
		s.Stream = appendBounded(s.Stream, text, StreamLength)
		t.report.Effects = append(t.report.Effects, EffectInterruption)
	}
}

func (u *Updater) record(ctx context.Context, sessionID string, entries []MemoryEntry) {
	if u.deps.Recorder == nil {
		return
	}
	for _, e := range entries {
		if err := u.deps.Recorder.Record(ctx, sessionID, e); err != nil {
			u.log.Warn().Err(err).Str("id", e.ID).Msg("archive write failed")
		}
	}
}
