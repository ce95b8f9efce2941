package mind

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

func TestEmotionsStayInBounds(t *testing.T) {
	for _, normalize := range []bool{true, false} {
		e := DefaultEmotions()
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 1000; i++ {
			e.Tick(rng, normalize)
			for _, n := range EmotionNames {
				if v := e.Get(n); v < 0 || v > 1 {
					t.Fatalf("normalize=%v tick %d: %s = %v", normalize, i, n, v)
				}
			}
		}
	}
}

func TestEmotionsNormalize(t *testing.T) {
	e := Emotions{Curiosity: 2, Calm: 1, Anxiety: 1}
	e.Normalize()
	var sum float64
	for _, n := range EmotionNames {
		sum += e.Get(n)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("sum = %v", sum)
	}

	var zero Emotions
	zero.Normalize()
	if zero != (Emotions{}) {
		t.Fatal("zero vector changed")
	}
}

func TestEmotionsAddClamps(t *testing.T) {
	e := DefaultEmotions()
	e.Add("curiosity", 5)
	e.Add("calm", -5)
	e.Add("boredom", 1)
	if e.Curiosity != 1 || e.Calm != 0 {
		t.Fatalf("got %+v", e)
	}
}

func TestEmotionsDominantAndBlend(t *testing.T) {
	e := DefaultEmotions()
	if got := e.Dominant(); got != "CURIOSITY" {
		t.Fatalf("Dominant = %s", got)
	}
	if got := e.Blend(); got != "CURIOSITY (60%), CALM (30%)" {
		t.Fatalf("Blend = %s", got)
	}
	// ties resolve in name order
	if got := (Emotions{}).Dominant(); got != "CURIOSITY" {
		t.Fatalf("Dominant of zero vector = %s", got)
	}
}

func TestModulateMaturityDampensDreams(t *testing.T) {
	e := Emotions{Reflective: 1, Dreaming: 1}
	young := Modulate(e, 0.1).DreamChance
	mid := Modulate(e, 0.4).DreamChance
	old := Modulate(e, 0.9).DreamChance
	if !(young < mid && mid < old) {
		t.Fatalf("dream chance young=%v mid=%v old=%v", young, mid, old)
	}
	if math.Abs(old-0.4) > 1e-9 {
		t.Fatalf("mature dream chance = %v, want 0.4", old)
	}
}

func TestCallBudget(t *testing.T) {
	b := DefaultCallBudget()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if !b.Take(now) {
			t.Fatalf("call %d refused", i)
		}
	}
	if b.Take(now.Add(time.Second)) {
		t.Fatal("fifth call within a minute allowed")
	}
	if !b.Take(now.Add(61 * time.Second)) {
		t.Fatal("call after a minute refused")
	}

	var none *CallBudget
	if !none.Take(now) {
		t.Fatal("nil budget should allow everything")
	}
}

func TestCallBudgetHourly(t *testing.T) {
	b := DefaultCallBudget()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	allowed := 0
	for i := 0; i < 120; i++ {
		if b.Take(now.Add(time.Duration(i) * 20 * time.Second)) {
			allowed++
		}
	}
	// 120 attempts spread over 40 minutes: the per-minute cap never bites
	if allowed != 60 {
		t.Fatalf("allowed %d calls, want 60", allowed)
	}
}
