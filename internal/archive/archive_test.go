package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/keshon/v0id/internal/mind"
	"github.com/oklog/ulid/v2"
)

func entry(text string, at time.Time) mind.MemoryEntry {
	return mind.MemoryEntry{
		ID:         ulid.MustNew(ulid.Timestamp(at), ulid.DefaultEntropy()).String(),
		Text:       text,
		EmotionTag: "CURIOSITY",
		Strength:   0.8,
		CreatedAt:  at,
		Topic:      "memory",
		Mode:       mind.ModeRun,
		Style:      "fragmented",
	}
}

func openTemp(t *testing.T) *SQLiteArchive {
	t.Helper()
	a, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nested", "thoughts.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSQLiteRecordAndHistory(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i, text := range []string{"first", "second", "third"} {
		if err := a.Record(ctx, "s1", entry(text, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := a.Record(ctx, "s2", entry("other session", base.Add(time.Minute))); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := a.History(ctx, 10, "")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(all) != 4 || all[0].Thought != "other session" || all[3].Thought != "first" {
		t.Fatalf("history order wrong: %+v", all)
	}

	s1, err := a.History(ctx, 2, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(s1) != 2 || s1[0].Thought != "third" || s1[1].Thought != "second" {
		t.Fatalf("session history: %+v", s1)
	}
	r := s1[0]
	if r.SessionID != "s1" || r.Emotion != "CURIOSITY" || r.Topic != "memory" || r.Mode != "RUN" || r.Style != "fragmented" {
		t.Fatalf("fields lost: %+v", r)
	}
	if !r.CreatedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("created_at = %v", r.CreatedAt)
	}
}

func TestSQLiteRecordIsIdempotent(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	e := entry("once", time.Now())
	for i := 0; i < 3; i++ {
		if err := a.Record(ctx, "s", e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := a.History(ctx, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("%d rows, want 1", len(got))
	}
}

func TestSQLiteFillsMissingID(t *testing.T) {
	a := openTemp(t)
	if err := a.Record(context.Background(), "s", mind.MemoryEntry{Text: "no id"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, _ := a.History(context.Background(), 1, "s")
	if len(got) != 1 || len(got[0].ID) != 26 {
		t.Fatalf("history = %+v", got)
	}
}

func TestOpenDrivers(t *testing.T) {
	a, err := Open(context.Background(), "none", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(Nop); !ok {
		t.Fatalf("none gave %T", a)
	}
	if _, err := Open(context.Background(), "mongo", ""); err == nil {
		t.Fatal("unknown driver accepted")
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{0: DefaultHistoryLimit, -3: DefaultHistoryLimit, 5: 5, 99999: MaxHistoryLimit} {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestSQLiteHistoryRejectsBadTimestamp(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO memories (id, session_id, thought, created_at) VALUES ('bad', 's1', 'hand edited', 'yesterday')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := a.History(ctx, 10, ""); err == nil {
		t.Fatal("expected an error for an unparsable created_at")
	}
}
