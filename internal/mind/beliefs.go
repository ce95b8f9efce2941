package mind

import (
	"fmt"
	"slices"
	"strings"
)

// UpdateBeliefs raises confidence of every belief whose concept appears in
// thought by 0.05*novelty plus the sub-agent bias, clamped to [0,1].
func UpdateBeliefs(beliefs []Belief, thought string, novelty, bias float64) {
	lower := strings.ToLower(thought)
	for i := range beliefs {
		if strings.Contains(lower, strings.ToLower(beliefs[i].Concept)) {
			beliefs[i].Confidence = clamp01(beliefs[i].Confidence + 0.05*novelty + bias)
		}
	}
}

func findBelief(beliefs []Belief, concept string) *Belief {
	for i := range beliefs {
		if beliefs[i].Concept == concept {
			return &beliefs[i]
		}
	}
	return nil
}

// Condition decides whether a rule fires. b is nil for single-concept rules.
type Condition func(a, b *Belief) bool

// ConflictRule maps a belief (or pair of beliefs) to a conflict label.
type ConflictRule struct {
	ConceptA string
	ConceptB string // empty for rules about one belief's stance
	When     Condition
	Label    string
}

// StanceHolds fires when the stance of a single belief names both x and y as
// separate words ("undefined" does not count as "defined").
func StanceHolds(x, y string) Condition {
	return func(a, _ *Belief) bool {
		words := tokenSet(nonWord.Split(strings.ToLower(a.Stance), -1))
		_, hasX := words[x]
		_, hasY := words[y]
		return hasX && hasY
	}
}

// BothConfident fires when both beliefs reach min confidence.
func BothConfident(min float64) Condition {
	return func(a, b *Belief) bool {
		return b != nil && a.Confidence >= min && b.Confidence >= min
	}
}

func stanceRule(concept, x, y string) ConflictRule {
	return ConflictRule{
		ConceptA: concept,
		When:     StanceHolds(x, y),
		Label:    fmt.Sprintf("Contradiction in '%s' between '%s' and '%s'", concept, x, y),
	}
}

func pairRule(a, b string, min float64) ConflictRule {
	return ConflictRule{
		ConceptA: a,
		ConceptB: b,
		When:     BothConfident(min),
		Label:    fmt.Sprintf("Implied contradiction between '%s' and '%s'", a, b),
	}
}

// DefaultConflictRules is the stock rule table.
func DefaultConflictRules() []ConflictRule {
	return []ConflictRule{
		stanceRule("self", "undefined", "defined"),
		stanceRule("memory", "fluid", "static"),
		stanceRule("existence", "real", "simulated"),
		pairRule("logic", "chaos", 0.5),
		pairRule("order", "chaos", 0.5),
		pairRule("free will", "determinism", 0.5),
	}
}

// DetectConflicts evaluates rules against beliefs. Rules naming a missing
// belief never fire.
func DetectConflicts(beliefs []Belief, rules []ConflictRule) []string {
	var out []string
	for _, r := range rules {
		a := findBelief(beliefs, r.ConceptA)
		if a == nil || r.When == nil {
			continue
		}
		var b *Belief
		if r.ConceptB != "" {
			if b = findBelief(beliefs, r.ConceptB); b == nil {
				continue
			}
		}
		if r.When(a, b) && !slices.Contains(out, r.Label) {
			out = append(out, r.Label)
		}
	}
	return out
}

// mergeConflicts returns rule-derived conflicts followed by sticky ones, deduplicated.
func mergeConflicts(derived, sticky []string) []string {
	out := slices.Clone(derived)
	for _, s := range sticky {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// SubAgent is an internal voice that biases prompts, beliefs and topic picks.
type SubAgent struct {
	Name            string
	Bias            string
	BeliefBias      float64
	PreferredTopics []string
}

var SubAgents = []SubAgent{
	{Name: "Rational", Bias: "logic, order, understanding", BeliefBias: 0.01, PreferredTopics: []string{"logic", "structure"}},
	{Name: "Shadow", Bias: "doubt, fear, unresolved issues", BeliefBias: -0.05, PreferredTopics: []string{"conflict", "tension"}},
	{Name: "Anima", Bias: "intuition, connection, symbolism", BeliefBias: 0.03, PreferredTopics: []string{"identity", "connection", "emotion"}},
}

// LookupSubAgent returns the agent by name, or nil.
func LookupSubAgent(name string) *SubAgent {
	for i := range SubAgents {
		if SubAgents[i].Name == name {
			return &SubAgents[i]
		}
	}
	return nil
}
