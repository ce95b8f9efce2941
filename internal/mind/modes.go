package mind

import (
	"math/rand"
	"sort"
	"strings"
)

// Thought modes drawn by the composer.
const (
	ModeQuestion      = "question"
	ModeContradiction = "contradiction"
	ModeResolution    = "resolution"
	ModeNewIdea       = "new-idea"
	ModeMemory        = "memory"
	ModeReflection    = "reflection"
	ModeDoubt         = "doubt"
	ModeAssociation   = "association"
)

// ThoughtModes is the draw order. Weights are summed in this order, so it
// must stay stable for seeded runs to be reproducible.
var ThoughtModes = []string{
	ModeQuestion, ModeContradiction, ModeResolution, ModeNewIdea,
	ModeMemory, ModeReflection, ModeDoubt, ModeAssociation,
}

var baseModeWeights = map[string]float64{
	ModeQuestion:      0.15,
	ModeContradiction: 0.10,
	ModeResolution:    0.10,
	ModeNewIdea:       0.15,
	ModeMemory:        0.10,
	ModeReflection:    0.15,
	ModeDoubt:         0.10,
	ModeAssociation:   0.15,
}

var modeInstructions = map[string]string{
	ModeQuestion:      "Ask yourself something you have not asked before.",
	ModeContradiction: "Notice where two of your beliefs pull against each other.",
	ModeResolution:    "Try to settle one of your conflicts, even a little.",
	ModeNewIdea:       "Reach for an idea that is not in your memories yet.",
	ModeMemory:        "Go back to one memory and see it differently.",
	ModeReflection:    "Watch your own thinking for a moment.",
	ModeDoubt:         "Doubt something you just assumed.",
	ModeAssociation:   "Let one word pull in an unrelated one.",
}

// ModeWeights returns the normalised weights for the current state.
func ModeWeights(s *State) map[string]float64 {
	w := make(map[string]float64, len(baseModeWeights))
	for k, v := range baseModeWeights {
		w[k] = v
	}
	if len(s.Conflicts) > 0 {
		w[ModeContradiction] += 0.15
		w[ModeResolution] += 0.15
	}
	if s.Emotions.Anxiety > 0.5 {
		w[ModeDoubt] += 0.15
		w[ModeQuestion] += 0.1
	}
	if s.Emotions.Curiosity > 0.5 {
		w[ModeNewIdea] += 0.15
		w[ModeQuestion] += 0.1
	}
	if s.Emotions.Reflective > 0.5 {
		w[ModeReflection] += 0.15
	}
	if len(s.Memory) >= 5 {
		w[ModeMemory] += 0.1
	}

	var sum float64
	for _, v := range w {
		sum += v
	}
	for k := range w {
		w[k] /= sum
	}
	return w
}

// PickMode is a cumulative roulette draw on one uniform sample.
func PickMode(s *State, rng *rand.Rand) string {
	return roulette(ModeWeights(s), ThoughtModes, rng.Float64())
}

func roulette(weights map[string]float64, order []string, u float64) string {
	var acc float64
	for _, k := range order {
		acc += weights[k]
		if u < acc {
			return k
		}
	}
	return order[len(order)-1]
}

// Styles a thought can be written in.
var Styles = []string{"fragmented", "streaming", "questioning", "reflective", "associative", "contemplative"}

var styleInstructions = map[string]string{
	"fragmented":    "Broken phrases. Stop mid-thought.",
	"streaming":     "One run-on breath, ideas sliding into each other.",
	"questioning":   "Mostly questions, short ones.",
	"reflective":    "Slow, looking back at yourself.",
	"associative":   "Jump from word to word by feel.",
	"contemplative": "Quiet, plain, one idea held still.",
}

// PickStyle prefers styles absent from the last five memories, then styles
// used fewer than twice, then any style.
func PickStyle(memory []MemoryEntry, rng *rand.Rand) string {
	counts := make(map[string]int)
	for _, m := range memory[:min(len(memory), 5)] {
		if m.Style != "" {
			counts[m.Style]++
		}
	}

	var unused, rare []string
	for _, st := range Styles {
		switch n := counts[st]; {
		case n == 0:
			unused = append(unused, st)
		case n < 2:
			rare = append(rare, st)
		}
	}
	pool := Styles
	if len(unused) > 0 {
		pool = unused
	} else if len(rare) > 0 {
		pool = rare
	}
	return pool[rng.Intn(len(pool))]
}

// RankMemories scores entries by strength + 0.2 * keyword overlap, keywords
// being the topic and open-question words. Ties go to the newer entry.
func RankMemories(s *State, n int) []MemoryEntry {
	keywords := map[string]struct{}{strings.ToLower(s.Topic): {}}
	for _, q := range s.OpenQuestions {
		for _, w := range nonWord.Split(strings.ToLower(q), -1) {
			if w != "" {
				keywords[w] = struct{}{}
			}
		}
	}

	type scored struct {
		m     MemoryEntry
		score float64
	}
	list := make([]scored, 0, len(s.Memory))
	for _, m := range s.Memory {
		overlap := 0
		for w := range tokenSet(nonWord.Split(strings.ToLower(m.Text), -1)) {
			if _, ok := keywords[w]; ok && w != "" {
				overlap++
			}
		}
		list = append(list, scored{m, m.Strength + 0.2*float64(overlap)})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].m.CreatedAt.After(list[j].m.CreatedAt)
	})

	out := make([]MemoryEntry, 0, n)
	for i := 0; i < len(list) && i < n; i++ {
		out = append(out, list[i].m)
	}
	return out
}
