package mind

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"
)

// blockingGateway holds every call until release is closed.
type blockingGateway struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *blockingGateway) Generate(ctx context.Context, _ string) string {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return "held"
}

func (g *blockingGateway) LastError() string { return "" }

func TestSchedulerSkipsOverlappingTicks(t *testing.T) {
	gw := &blockingGateway{entered: make(chan struct{}), release: make(chan struct{})}
	u := NewUpdater(NewState("test", 0, time.Now()), Deps{Gateway: gw, Rand: rand.New(rand.NewSource(1))}, quietOptions())
	sched := NewScheduler(u, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- sched.Run(ctx) }()

	select {
	case <-gw.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick never reached the gateway")
	}

	deadline := time.Now().Add(2 * time.Second)
	for sched.Skipped() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sched.Skipped() == 0 {
		t.Fatal("no tick was skipped while one was in flight")
	}

	close(gw.release)
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSchedulerWakesAtDeadline(t *testing.T) {
	s := NewState("test", 0, time.Now())
	s.Mode = ModeDream
	s.DreamEndsAt = time.Now().Add(20 * time.Millisecond)
	u := NewUpdater(s, Deps{Gateway: &uniqueGateway{}, Rand: rand.New(rand.NewSource(1))}, quietOptions())

	reports := make(chan TickReport, 4)
	sched := NewScheduler(u, time.Hour, func(_ context.Context, r TickReport) { reports <- r })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	select {
	case r := <-reports:
		if !r.Woke {
			t.Fatalf("report = %+v, want a wake", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mind never woke")
	}
	if _, dreaming := u.DreamEndsAt(); dreaming {
		t.Fatal("still dreaming after wake")
	}
}
