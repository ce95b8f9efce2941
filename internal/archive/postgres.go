package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/keshon/v0id/internal/mind"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// memoryModel maps to the memories table.
type memoryModel struct {
	ID        string    `gorm:"primaryKey;size:26"`
	SessionID string    `gorm:"index:idx_memories_session;not null"`
	Thought   string    `gorm:"not null"`
	Emotion   string    `gorm:"not null;default:''"`
	Strength  float64   `gorm:"not null;default:1"`
	Topic     string    `gorm:"not null;default:''"`
	Mode      string    `gorm:"not null;default:'RUN'"`
	Style     string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"index:idx_memories_created,sort:desc;not null"`
}

func (memoryModel) TableName() string {
	return "memories"
}

// PostgresArchive stores records in PostgreSQL through gorm.
type PostgresArchive struct {
	db  *gorm.DB
	log zerolog.Logger
}

// OpenPostgres connects, pings and migrates the memories table.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresArchive, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&memoryModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate memories: %w", err)
	}

	a := &PostgresArchive{db: db, log: logging.Component("archive")}
	a.log.Info().Msg("postgres archive ready")
	return a, nil
}

func (a *PostgresArchive) Record(ctx context.Context, sessionID string, e mind.MemoryEntry) error {
	r := toRecord(sessionID, e)
	m := memoryModel{
		ID:        r.ID,
		SessionID: r.SessionID,
		Thought:   r.Thought,
		Emotion:   r.Emotion,
		Strength:  r.Strength,
		Topic:     r.Topic,
		Mode:      r.Mode,
		Style:     r.Style,
		CreatedAt: r.CreatedAt,
	}
	err := a.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("failed to insert memory %s: %w", r.ID, err)
	}
	return nil
}

func (a *PostgresArchive) History(ctx context.Context, limit int, sessionID string) ([]Record, error) {
	q := a.db.WithContext(ctx).Model(&memoryModel{})
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}
	var rows []memoryModel
	if err := q.Order("created_at DESC").Order("id DESC").Limit(clampLimit(limit)).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, m := range rows {
		out = append(out, Record{
			ID:        m.ID,
			SessionID: m.SessionID,
			Thought:   m.Thought,
			Emotion:   m.Emotion,
			Strength:  m.Strength,
			Topic:     m.Topic,
			Mode:      m.Mode,
			Style:     m.Style,
			CreatedAt: m.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (a *PostgresArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
