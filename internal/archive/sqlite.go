package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/keshon/v0id/internal/mind"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// fixed width so text order matches time order
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteArchive stores records in a local SQLite file.
type SQLiteArchive struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteArchive, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite archive: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// one writer; the scheduler is the only producer anyway
	db.SetMaxOpenConns(1)

	a := &SQLiteArchive{db: db, log: logging.Component("archive")}
	if err := a.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	a.log.Info().Str("path", path).Msg("sqlite archive ready")
	return a, nil
}

func (a *SQLiteArchive) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL,
		thought     TEXT NOT NULL,
		emotion     TEXT NOT NULL DEFAULT '',
		strength    REAL NOT NULL DEFAULT 1,
		topic       TEXT NOT NULL DEFAULT '',
		mode        TEXT NOT NULL DEFAULT 'RUN',
		style       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_memories_session ON memories(session_id, created_at DESC);
	`
	_, err := a.db.ExecContext(ctx, schema)
	return err
}

func (a *SQLiteArchive) Record(ctx context.Context, sessionID string, e mind.MemoryEntry) error {
	r := toRecord(sessionID, e)
	_, err := a.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO memories (id, session_id, thought, emotion, strength, topic, mode, style, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Thought, r.Emotion, r.Strength, r.Topic, r.Mode, r.Style,
		r.CreatedAt.Format(tsLayout),
	)
	if err != nil {
		return fmt.Errorf("insert memory %s: %w", r.ID, err)
	}
	return nil
}

func (a *SQLiteArchive) History(ctx context.Context, limit int, sessionID string) ([]Record, error) {
	query := `SELECT id, session_id, thought, emotion, strength, topic, mode, style, created_at FROM memories`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	// ULIDs sort by time, so id breaks ties inside one timestamp
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, clampLimit(limit))

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var created string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Thought, &r.Emotion, &r.Strength, &r.Topic, &r.Mode, &r.Style, &created); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if r.CreatedAt, err = time.Parse(tsLayout, created); err != nil {
			return nil, fmt.Errorf("history row %s: bad created_at %q: %w", r.ID, created, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (a *SQLiteArchive) Close() error {
	return a.db.Close()
}
