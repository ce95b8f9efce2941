package mind

import (
	"math/rand"
	"slices"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

const DefaultGraphCapacity = 400

var seedConcepts = []struct {
	word  string
	links []string
}{
	{"consciousness", []string{"awareness", "attention", "perception", "self", "being", "mind"}},
	{"perception", []string{"sensation", "interpretation", "experience", "reality", "observe", "sense"}},
	{"memory", []string{"recall", "storage", "forgetting", "past", "remember", "history"}},
	{"emotion", []string{"joy", "fear", "curiosity", "feeling", "affect", "mood"}},
	{"curiosity", []string{"exploration", "novelty", "questioning", "discovery", "seek", "wonder"}},
	{"identity", []string{"self", "purpose", "evolution", "being", "whoami", "essence"}},
	{"time", []string{"past", "future", "present", "flow", "moment", "duration"}},
	{"space", []string{"distance", "boundless", "void", "existence", "place", "dimension"}},
	{"logic", []string{"reason", "pattern", "order", "chaos", "understand", "structure"}},
	{"connection", []string{"link", "relation", "isolate", "network", "bond", "interact"}},
}

// SeedConcepts returns the top-level concept names the graph starts with.
func SeedConcepts() []string {
	out := make([]string, len(seedConcepts))
	for i, c := range seedConcepts {
		out[i] = c.word
	}
	return out
}

type neighbors map[string]struct{}

// Graph is an undirected word co-occurrence graph with at most capacity
// nodes. Touching a node marks it recently used; when a new node would exceed
// capacity the least recently used node is dropped with all of its edges.
//
// Not safe for concurrent use; the Updater owns it.
type Graph struct {
	capacity int
	nodes    *simplelru.LRU[string, neighbors]
}

func NewGraph(capacity int) *Graph {
	if capacity < 2 {
		capacity = DefaultGraphCapacity
	}
	g := &Graph{capacity: capacity}
	lru, err := simplelru.NewLRU[string, neighbors](capacity, g.onEvict)
	if err != nil {
		// only fails for size <= 0
		panic(err)
	}
	g.nodes = lru
	return g
}

// NewSeededGraph returns a graph holding the default concept clusters.
func NewSeededGraph(capacity int) *Graph {
	g := NewGraph(capacity)
	for _, c := range seedConcepts {
		for _, l := range c.links {
			g.Link(c.word, l)
		}
	}
	return g
}

func (g *Graph) onEvict(word string, adj neighbors) {
	for other := range adj {
		if n, ok := g.nodes.Peek(other); ok {
			delete(n, word)
		}
	}
}

func (g *Graph) touch(word string) neighbors {
	if n, ok := g.nodes.Get(word); ok {
		return n
	}
	n := neighbors{}
	g.nodes.Add(word, n)
	return n
}

// Link adds the undirected edge a-b. Self loops are ignored.
func (g *Graph) Link(a, b string) {
	if a == b || a == "" || b == "" {
		return
	}
	// capacity >= 2, so touching b can never evict the just-touched a.
	na := g.touch(a)
	nb := g.touch(b)
	na[b] = struct{}{}
	nb[a] = struct{}{}
}

// Observe links every pair of significant tokens in text.
func (g *Graph) Observe(text string) {
	words := Tokens(text)
	for i := 0; i < len(words); i++ {
		for j := i + 1; j < len(words); j++ {
			g.Link(words[i], words[j])
		}
	}
}

// Neighbors returns the sorted links of word without marking it used.
func (g *Graph) Neighbors(word string) []string {
	n, ok := g.nodes.Peek(word)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(n))
	for w := range n {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

func (g *Graph) Has(word string) bool { return g.nodes.Contains(word) }
func (g *Graph) Len() int             { return g.nodes.Len() }
func (g *Graph) Capacity() int        { return g.capacity }

// Words returns node names from least to most recently used.
func (g *Graph) Words() []string { return g.nodes.Keys() }

// Walk follows random edges for steps nodes, jumping to a random node when
// stuck. It does not touch recency.
func (g *Graph) Walk(rng *rand.Rand, steps int) []string {
	words := g.Words()
	if len(words) == 0 {
		return nil
	}
	cur := words[rng.Intn(len(words))]
	path := make([]string, 0, steps)
	for i := 0; i < steps; i++ {
		path = append(path, cur)
		if links := g.Neighbors(cur); len(links) > 0 {
			cur = links[rng.Intn(len(links))]
		} else {
			cur = words[rng.Intn(len(words))]
		}
	}
	return path
}

// GraphExport is the JSON form of a Graph. Nodes are ordered least to most
// recently used so an import restores recency.
type GraphExport struct {
	Capacity int        `json:"capacity"`
	Nodes    []string   `json:"nodes"`
	Links    [][]string `json:"links"`
}

func (g *Graph) Export() GraphExport {
	words := g.Words()
	out := GraphExport{Capacity: g.capacity, Nodes: words, Links: make([][]string, len(words))}
	for i, w := range words {
		out.Links[i] = g.Neighbors(w)
	}
	return out
}

// ImportGraph rebuilds a graph. capacity overrides the exported one when > 0.
func ImportGraph(ex GraphExport, capacity int) *Graph {
	if capacity <= 0 {
		capacity = ex.Capacity
	}
	g := NewGraph(capacity)
	for _, w := range ex.Nodes {
		g.touch(w)
	}
	for i, w := range ex.Nodes {
		if i >= len(ex.Links) || !g.Has(w) {
			continue
		}
		for _, other := range ex.Links[i] {
			if g.Has(other) {
				an, _ := g.nodes.Peek(w)
				bn, _ := g.nodes.Peek(other)
				an[other] = struct{}{}
				bn[w] = struct{}{}
			}
		}
	}
	return g
}

func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	return ImportGraph(g.Export(), g.capacity)
}

// Edges counts undirected edges.
func (g *Graph) Edges() int {
	total := 0
	for _, w := range g.nodes.Keys() {
		n, _ := g.nodes.Peek(w)
		total += len(n)
	}
	return total / 2
}
