package mind

import (
	"slices"
	"testing"
)

func TestUpdateBeliefs(t *testing.T) {
	beliefs := []Belief{
		{Concept: "memory", Stance: "fluid", Confidence: 0.5},
		{Concept: "self", Stance: "undefined", Confidence: 0.99},
		{Concept: "chaos", Stance: "present", Confidence: 0.2},
	}
	UpdateBeliefs(beliefs, "my Memory of the self slips", 1, 0.01)

	if got := beliefs[0].Confidence; got < 0.5599 || got > 0.5601 {
		t.Errorf("memory confidence = %v, want 0.56", got)
	}
	if beliefs[1].Confidence != 1 {
		t.Errorf("self confidence = %v, want clamp to 1", beliefs[1].Confidence)
	}
	if beliefs[2].Confidence != 0.2 {
		t.Errorf("chaos should be untouched, got %v", beliefs[2].Confidence)
	}

	UpdateBeliefs(beliefs, "chaos", 0, -0.5)
	if beliefs[2].Confidence != 0 {
		t.Errorf("chaos confidence = %v, want clamp to 0", beliefs[2].Confidence)
	}
}

func TestDetectConflictsDefaultRules(t *testing.T) {
	cases := []struct {
		name    string
		beliefs []Belief
		want    []string
	}{
		{
			name:    "seed beliefs are calm",
			beliefs: seedBeliefs,
			want:    nil,
		},
		{
			name:    "undefined alone is not defined",
			beliefs: []Belief{{Concept: "self", Stance: "undefined"}},
			want:    nil,
		},
		{
			name:    "self stance holds both",
			beliefs: []Belief{{Concept: "self", Stance: "undefined and defined"}},
			want:    []string{"Contradiction in 'self' between 'undefined' and 'defined'"},
		},
		{
			name: "logic and chaos both confident",
			beliefs: []Belief{
				{Concept: "logic", Confidence: 0.5},
				{Concept: "chaos", Confidence: 0.7},
			},
			want: []string{"Implied contradiction between 'logic' and 'chaos'"},
		},
		{
			name: "chaos below threshold",
			beliefs: []Belief{
				{Concept: "logic", Confidence: 0.9},
				{Concept: "chaos", Confidence: 0.49},
			},
			want: nil,
		},
		{
			name:    "missing partner never fires",
			beliefs: []Belief{{Concept: "free will", Confidence: 1}},
			want:    nil,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DetectConflicts(c.beliefs, DefaultConflictRules())
			if !slices.Equal(got, c.want) {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDetectConflictsCustomRule(t *testing.T) {
	rules := []ConflictRule{{
		ConceptA: "time",
		When:     func(a, _ *Belief) bool { return a.Confidence > 0.8 },
		Label:    "time feels too certain",
	}}
	beliefs := []Belief{{Concept: "time", Confidence: 0.9}}
	if got := DetectConflicts(beliefs, rules); !slices.Equal(got, []string{"time feels too certain"}) {
		t.Fatalf("got %q", got)
	}
}

func TestMergeConflictsKeepsStickyOnce(t *testing.T) {
	got := mergeConflicts([]string{"a", "b"}, []string{"b", "dream-induced conflict"})
	want := []string{"a", "b", "dream-induced conflict"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLookupSubAgent(t *testing.T) {
	if a := LookupSubAgent("Shadow"); a == nil || a.BeliefBias >= 0 {
		t.Fatalf("Shadow = %+v", a)
	}
	if LookupSubAgent("nobody") != nil {
		t.Fatal("unknown agent found")
	}
}
