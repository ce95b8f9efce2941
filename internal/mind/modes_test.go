package mind

import (
	"math"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestModeWeightsSumToOne(t *testing.T) {
	s := NewState("s", 0, time.Now())
	s.Conflicts = []string{"x"}
	s.Emotions = Emotions{Curiosity: 0.9, Anxiety: 0.8, Reflective: 0.7}

	w := ModeWeights(s)
	var sum float64
	for _, m := range ThoughtModes {
		sum += w[m]
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights sum to %v", sum)
	}
	base := ModeWeights(NewState("s", 0, time.Now()))
	if w[ModeResolution] <= base[ModeResolution] {
		t.Fatal("conflicts should favour resolution")
	}
}

func TestRoulette(t *testing.T) {
	w := map[string]float64{"a": 0.25, "b": 0.5, "c": 0.25}
	order := []string{"a", "b", "c"}
	for _, c := range []struct {
		u    float64
		want string
	}{
		{0, "a"}, {0.24, "a"}, {0.25, "b"}, {0.74, "b"}, {0.75, "c"}, {0.9999, "c"}, {1, "c"},
	} {
		if got := roulette(w, order, c.u); got != c.want {
			t.Errorf("roulette(%v) = %s, want %s", c.u, got, c.want)
		}
	}
}

func TestPickStyleTiers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// five recent entries use five styles once: only "contemplative" is unused
	used := Styles[:5]
	mem := make([]MemoryEntry, 0, 5)
	for _, st := range used {
		mem = append(mem, MemoryEntry{Style: st})
	}
	for i := 0; i < 20; i++ {
		if got := PickStyle(mem, rng); got != "contemplative" {
			t.Fatalf("PickStyle = %s, want the unused style", got)
		}
	}

	// only the first five entries count
	older := append(slices.Clone(mem), MemoryEntry{Style: "contemplative"})
	if got := PickStyle(older, rng); got != "contemplative" {
		t.Fatalf("entry beyond five counted: %s", got)
	}
}

func TestPickStyleSkipsRepeatedStyles(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mem := []MemoryEntry{
		{Style: "fragmented"}, {Style: "fragmented"},
		{Style: "streaming"}, {Style: "streaming"},
		{Style: "questioning"},
	}
	for i := 0; i < 20; i++ {
		got := PickStyle(mem, rng)
		if got == "fragmented" || got == "streaming" || got == "questioning" {
			t.Fatalf("PickStyle = %s, want an unused style", got)
		}
	}
}

func TestRankMemories(t *testing.T) {
	now := time.Now()
	s := &State{
		Topic:         "memory",
		OpenQuestions: []string{"what is time?"},
		Memory: []MemoryEntry{
			{Text: "plain", Strength: 0.9, CreatedAt: now},
			{Text: "memory and time", Strength: 0.6, CreatedAt: now.Add(-time.Second)},
			{Text: "older twin", Strength: 0.5, CreatedAt: now.Add(-2 * time.Second)},
			{Text: "newer twin", Strength: 0.5, CreatedAt: now.Add(-time.Millisecond)},
		},
	}
	got := RankMemories(s, 3)
	texts := make([]string, len(got))
	for i, m := range got {
		texts[i] = m.Text
	}
	want := []string{"memory and time", "plain", "newer twin"}
	if !slices.Equal(texts, want) {
		t.Fatalf("ranked %v, want %v", texts, want)
	}
}

func TestComposersMentionTopic(t *testing.T) {
	s := NewState("s", 0, time.Now())
	s.Topic = "perception"
	for _, c := range []Composer{MonologueComposer{}, PlainComposer{}} {
		p := c.Compose(s, rand.New(rand.NewSource(1)), "you are incomplete")
		if !strings.Contains(p.Text, "perception") {
			t.Errorf("%s prompt lacks topic", c.Name())
		}
		if !strings.Contains(p.Text, "you are incomplete") {
			t.Errorf("%s prompt lacks other voice", c.Name())
		}
		if !slices.Contains(ThoughtModes, p.Mode) || !slices.Contains(Styles, p.Style) {
			t.Errorf("%s returned mode %q style %q", c.Name(), p.Mode, p.Style)
		}
	}
	if NewComposer("plain").Name() != "plain" || NewComposer("").Name() != "monologue" {
		t.Fatal("NewComposer picked the wrong composer")
	}
}

func TestSelectTopic(t *testing.T) {
	g := NewSeededGraph(DefaultGraphCapacity)
	rng := rand.New(rand.NewSource(5))
	valid := map[string]bool{}
	for _, c := range SeedConcepts() {
		valid[c] = true
		for _, n := range g.Neighbors(c) {
			valid[n] = true
		}
	}
	for i := 0; i < 50; i++ {
		got := SelectTopic(g, "the past keeps folding", nil, "time", rng)
		if got == "time" {
			t.Fatal("current topic returned")
		}
		if !valid[got] {
			t.Fatalf("topic %q is not a concept or neighbour", got)
		}
	}
	if got := SelectTopic(g, "", nil, "memory", rng); got == "memory" || !valid[got] {
		t.Fatalf("fallback topic %q", got)
	}
}

func TestNextTopicLockRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		if n := nextTopicLock(rng); n < 3 || n > 5 {
			t.Fatalf("lock %d out of range", n)
		}
	}
}
