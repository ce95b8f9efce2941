package mind

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Novelty filter thresholds.
const (
	NoveltyWindow     = 15
	FingerprintWindow = 30
	SimilarityLimit   = 0.4
	SharedTokenLimit  = 2
	FingerprintRepeat = 2
)

var nonWord = regexp.MustCompile(`\W+`)

// Tokens lower-cases s, splits on non-word runs and keeps tokens longer than
// two bytes. Order and duplicates are preserved.
func Tokens(s string) []string {
	parts := nonWord.Split(strings.ToLower(s), -1)
	out := parts[:0]
	for _, p := range parts {
		if len(p) > 2 {
			out = append(out, p)
		}
	}
	return out
}

// Levenshtein is the classic DP edit distance over runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Similarity is 1 - distance/longest, in [0,1]. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// IsTooSimilar reports whether candidate repeats recent memory. history is
// newest first. Checks run cheapest first and stop at the first hit.
func IsTooSimilar(candidate string, history []MemoryEntry) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	recent := history[:min(len(history), NoveltyWindow)]

	for _, m := range recent {
		if c == strings.ToLower(strings.TrimSpace(m.Text)) {
			return true
		}
	}

	for _, m := range recent {
		if Similarity(c, strings.ToLower(strings.TrimSpace(m.Text))) > SimilarityLimit {
			return true
		}
	}

	cTokens := tokenSet(Tokens(c))
	for _, m := range recent {
		shared := 0
		for t := range tokenSet(Tokens(m.Text)) {
			if _, ok := cTokens[t]; ok {
				shared++
			}
		}
		if shared >= SharedTokenLimit {
			return true
		}
	}

	fp, ok := fingerprint(c)
	if !ok {
		return false
	}
	window := history[:min(len(history), FingerprintWindow)]
	repeats := 0
	for _, m := range window {
		if other, ok := fingerprint(m.Text); ok && other == fp {
			repeats++
			if repeats >= FingerprintRepeat {
				return true
			}
		}
	}
	return false
}

// fingerprint is the first two significant tokens. Texts with fewer than two
// tokens have none.
func fingerprint(s string) (string, bool) {
	t := Tokens(s)
	if len(t) < 2 {
		return "", false
	}
	return t[0] + " " + t[1], true
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
