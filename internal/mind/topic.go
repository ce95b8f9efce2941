package mind

import (
	"math/rand"
	"slices"
)

const topicLockMin = 3

// SelectTopic picks the next topic. Concepts from the seed clusters that match
// a word of the thought or the agent's preferred topics are candidates, and a
// random neighbour of one of them is returned. With no match a random seed
// concept is used. The current topic is avoided when there is a choice.
func SelectTopic(g *Graph, thought string, agent *SubAgent, current string, rng *rand.Rand) string {
	keywords := tokenSet(Tokens(thought))
	if agent != nil {
		for _, t := range agent.PreferredTopics {
			keywords[t] = struct{}{}
		}
	}

	concepts := SeedConcepts()
	rng.Shuffle(len(concepts), func(i, j int) { concepts[i], concepts[j] = concepts[j], concepts[i] })

	for _, c := range concepts {
		links := g.Neighbors(c)
		_, direct := keywords[c]
		matched := direct
		for _, l := range links {
			if _, ok := keywords[l]; ok {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		options := slices.DeleteFunc(append(links, c), func(w string) bool { return w == current })
		if len(options) > 0 {
			return options[rng.Intn(len(options))]
		}
	}

	options := slices.DeleteFunc(concepts, func(w string) bool { return w == current })
	return options[rng.Intn(len(options))]
}

// nextTopicLock returns a fresh lock of 3 to 5 ticks.
func nextTopicLock(rng *rand.Rand) int {
	return topicLockMin + rng.Intn(3)
}
