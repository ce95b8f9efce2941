package archive

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

// openPostgres connects to V0ID_TEST_PG_DSN and skips when it is unset.
func openPostgres(t *testing.T) *PostgresArchive {
	t.Helper()
	dsn := os.Getenv("V0ID_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("V0ID_TEST_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestPostgresRecordAndHistory(t *testing.T) {
	a := openPostgres(t)
	ctx := context.Background()
	// unique session per run so a shared database does not leak between runs
	session := "test-" + ulid.Make().String()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	var first string
	for i, text := range []string{"first", "second", "third"} {
		e := entry(text, base.Add(time.Duration(i)*time.Second))
		if i == 0 {
			first = e.ID
		}
		if err := a.Record(ctx, session, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	dup := entry("first again", base)
	dup.ID = first
	if err := a.Record(ctx, session, dup); err != nil {
		t.Fatalf("duplicate Record: %v", err)
	}

	got, err := a.History(ctx, 10, session)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 3 || got[0].Thought != "third" || got[2].Thought != "first" {
		t.Fatalf("history: %+v", got)
	}
	r := got[0]
	if r.SessionID != session || r.Emotion != "CURIOSITY" || r.Mode != "RUN" || r.Style != "fragmented" {
		t.Fatalf("fields lost: %+v", r)
	}
	if !r.CreatedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("created_at = %v", r.CreatedAt)
	}

	limited, err := a.History(ctx, 1, session)
	if err != nil || len(limited) != 1 {
		t.Fatalf("limited history: %v %+v", err, limited)
	}
}
