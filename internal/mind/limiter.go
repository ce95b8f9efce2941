package mind

import (
	"sync"
	"time"
)

// CallBudget caps the optional model calls a tick may make on top of the
// thought itself (other voice, generated stimuli, loop interruptions). The
// thought and dream calls are never budgeted.
type CallBudget struct {
	mu           sync.Mutex
	perMinute    []time.Time
	perHour      []time.Time
	maxPerMinute int
	maxPerHour   int
}

// DefaultCallBudget allows 4 extra calls per minute and 60 per hour.
func DefaultCallBudget() *CallBudget {
	return &CallBudget{
		perMinute:    make([]time.Time, 0, 8),
		perHour:      make([]time.Time, 0, 64),
		maxPerMinute: 4,
		maxPerHour:   60,
	}
}

// Take reports whether a call is allowed at now and records it if so.
func (b *CallBudget) Take(now time.Time) bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.perMinute = trimBefore(b.perMinute, now.Add(-time.Minute))
	b.perHour = trimBefore(b.perHour, now.Add(-time.Hour))

	if len(b.perMinute) >= b.maxPerMinute || len(b.perHour) >= b.maxPerHour {
		return false
	}
	b.perMinute = append(b.perMinute, now)
	b.perHour = append(b.perHour, now)
	return true
}

func trimBefore(ts []time.Time, cut time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cut) {
		i++
	}
	return ts[i:]
}
