// Package archive keeps the full, append-only history of everything the mind
// remembered. The live memory holds ten entries; the archive holds them all.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/v0id/internal/mind"
	"github.com/oklog/ulid/v2"
)

// Record is one archived memory entry.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Thought   string    `json:"thought"`
	Emotion   string    `json:"emotion"`
	Strength  float64   `json:"strength"`
	Topic     string    `json:"topic"`
	Mode      string    `json:"mode"`
	Style     string    `json:"style,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive stores records. Implementations are safe for concurrent use.
type Archive interface {
	Record(ctx context.Context, sessionID string, e mind.MemoryEntry) error
	// History returns up to limit records, newest first. An empty sessionID
	// means every session.
	History(ctx context.Context, limit int, sessionID string) ([]Record, error)
	Close() error
}

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 1000
)

// Open returns the archive for driver: "sqlite", "postgres" or "none".
func Open(ctx context.Context, driver, dsn string) (Archive, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(ctx, dsn)
	case "postgres":
		return OpenPostgres(ctx, dsn)
	case "none", "":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown archive driver %q", driver)
}

func toRecord(sessionID string, e mind.MemoryEntry) Record {
	id := e.ID
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	if id == "" {
		id = ulid.MustNew(ulid.Timestamp(created), ulid.DefaultEntropy()).String()
	}
	return Record{
		ID:        id,
		SessionID: sessionID,
		Thought:   e.Text,
		Emotion:   e.EmotionTag,
		Strength:  e.Strength,
		Topic:     e.Topic,
		Mode:      string(e.Mode),
		Style:     e.Style,
		CreatedAt: created.UTC(),
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	}
	return limit
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(context.Context, string, mind.MemoryEntry) error { return nil }

func (Nop) History(context.Context, int, string) ([]Record, error) { return nil, nil }

func (Nop) Close() error { return nil }
