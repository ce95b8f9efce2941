package mind

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// Emotions is a closed set of five weights, each in [0,1].
type Emotions struct {
	Curiosity  float64 `json:"curiosity"`
	Calm       float64 `json:"calm"`
	Anxiety    float64 `json:"anxiety"`
	Reflective float64 `json:"reflective"`
	Dreaming   float64 `json:"dreaming"`
}

// EmotionNames lists the keys in a stable order.
var EmotionNames = []string{"curiosity", "calm", "anxiety", "reflective", "dreaming"}

const (
	EmotionDecay = 0.95
	EmotionBoost = 0.1
	BoostChance  = 0.2
)

func DefaultEmotions() Emotions {
	return Emotions{Curiosity: 0.6, Calm: 0.3, Anxiety: 0.1, Reflective: 0.2}
}

func (e *Emotions) ptr(name string) *float64 {
	switch name {
	case "curiosity":
		return &e.Curiosity
	case "calm":
		return &e.Calm
	case "anxiety":
		return &e.Anxiety
	case "reflective":
		return &e.Reflective
	case "dreaming":
		return &e.Dreaming
	}
	return nil
}

func (e Emotions) Get(name string) float64 {
	if p := e.ptr(name); p != nil {
		return *p
	}
	return 0
}

// Add shifts one emotion by delta and clamps it. Unknown names are ignored.
func (e *Emotions) Add(name string, delta float64) {
	if p := e.ptr(name); p != nil {
		*p = clamp01(*p + delta)
	}
}

func (e *Emotions) each(f func(v *float64)) {
	for _, n := range EmotionNames {
		f(e.ptr(n))
	}
}

// Tick decays every weight, maybe boosts a random one, optionally rescales
// the vector to sum 1 and clamps everything to [0,1].
func (e *Emotions) Tick(rng *rand.Rand, normalize bool) {
	e.each(func(v *float64) { *v = clamp01(*v * EmotionDecay) })
	if rng.Float64() < BoostChance {
		e.Add(EmotionNames[rng.Intn(len(EmotionNames))], EmotionBoost)
	}
	if normalize {
		e.Normalize()
	}
	e.each(func(v *float64) { *v = clamp01(*v) })
}

// Normalize rescales to sum 1. An all-zero vector is left alone.
func (e *Emotions) Normalize() {
	var sum float64
	e.each(func(v *float64) { sum += *v })
	if sum <= 0 {
		return
	}
	e.each(func(v *float64) { *v /= sum })
}

type EmotionWeight struct {
	Name   string
	Weight float64
}

// Top returns the n strongest emotions, ties in EmotionNames order.
func (e Emotions) Top(n int) []EmotionWeight {
	out := make([]EmotionWeight, 0, len(EmotionNames))
	for _, name := range EmotionNames {
		out = append(out, EmotionWeight{name, e.Get(name)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Dominant returns the strongest emotion as an upper-case tag, e.g. "CURIOSITY".
func (e Emotions) Dominant() string {
	return strings.ToUpper(e.Top(1)[0].Name)
}

// Blend renders the top two as "CURIOSITY (60%), CALM (30%)".
func (e Emotions) Blend() string {
	parts := make([]string, 0, 2)
	for _, w := range e.Top(2) {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", strings.ToUpper(w.Name), w.Weight*100))
	}
	return strings.Join(parts, ", ")
}

// Modulators are the per-tick probabilities and rates derived from emotions.
type Modulators struct {
	DecayRate   float64
	TopicSwitch float64
	DreamChance float64
}

func Modulate(e Emotions, maturity float64) Modulators {
	m := Modulators{
		DecayRate:   0.95 + e.Anxiety*0.03 - e.Calm*0.02,
		TopicSwitch: 0.2 + e.Curiosity*0.2 - e.Anxiety*0.1,
		DreamChance: 0.15 + e.Reflective*0.1 + e.Dreaming*0.15,
	}
	switch {
	case maturity < 0.3:
		m.DreamChance *= 0.1
	case maturity < 0.6:
		m.DreamChance *= 0.5
	}
	m.DecayRate = clamp01(m.DecayRate)
	return m
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
