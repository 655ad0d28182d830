// Package dialoglog keeps a history of presented dialogue lines in MySQL.
package dialoglog

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dialogfix/internal/database"
)

// Entry is one row of dialogue_logs.
type Entry struct {
	ID             int64     `db:"id"`
	LineID         string    `db:"line_id"`
	ChannelCode    string    `db:"channel_code"`
	SpeakerName    string    `db:"speaker_name"`
	DisplayName    string    `db:"display_name"`
	SourceText     string    `db:"source_text"`
	TranslatedText string    `db:"translated_text"`
	Status         string    `db:"status"`
	TargetLanguage string    `db:"target_language"`
	Engine         string    `db:"engine"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repository defines operations for the dialogue log.
type Repository interface {
	Save(ctx context.Context, entries ...*Entry) error
	FindRecent(ctx context.Context, limit int) ([]Entry, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

const upsertQuery = `INSERT INTO dialogue_logs (line_id, channel_code, speaker_name, display_name, source_text, translated_text, status, target_language, engine)
VALUES (:line_id, :channel_code, :speaker_name, :display_name, :source_text, :translated_text, :status, :target_language, :engine)
ON DUPLICATE KEY UPDATE display_name = VALUES(display_name), translated_text = VALUES(translated_text), status = VALUES(status)`

// Save inserts entries in one transaction. A line that is already logged is
// updated in place.
func (r *DBRepository) Save(ctx context.Context, entries ...*Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, e := range entries {
			if _, err := tx.NamedExecContext(ctx, upsertQuery, e); err != nil {
				return fmt.Errorf("upsert dialogue log %s: %w", e.LineID, err)
			}
		}
		return nil
	})
}

// FindRecent returns the newest entries first.
func (r *DBRepository) FindRecent(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, "SELECT * FROM dialogue_logs ORDER BY created_at DESC, id DESC LIMIT ?", limit); err != nil {
		return nil, fmt.Errorf("load recent dialogue logs: %w", err)
	}
	return entries, nil
}

// DeleteBefore removes entries created before the given time and returns
// how many were removed.
func (r *DBRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM dialogue_logs WHERE created_at < ?", before)
	if err != nil {
		return 0, fmt.Errorf("delete dialogue logs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected() > %w", err)
	}
	return n, nil
}
