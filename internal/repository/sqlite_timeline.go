package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/schologic/practicum/internal/db"
	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/validation"
)

// SQLiteTimelineStore keeps each practicum's timeline as a JSON document in
// the practicums.timeline column. Documents are validated on the way in and
// on the way out, so a malformed row surfaces as an error instead of
// reaching the editor.
type SQLiteTimelineStore struct {
	db db.DBTX
}

func NewSQLiteTimelineStore(db db.DBTX) *SQLiteTimelineStore {
	return &SQLiteTimelineStore{db: db}
}

func (s *SQLiteTimelineStore) LoadTimeline(ctx context.Context, practicumID string) (domain.TimelineConfig, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT timeline FROM practicums WHERE id = ?`, practicumID).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TimelineConfig{}, fmt.Errorf("%w: %s", domain.ErrPracticumNotFound, practicumID)
		}
		return domain.TimelineConfig{}, fmt.Errorf("reading timeline: %w", err)
	}

	var cfg domain.TimelineConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return domain.TimelineConfig{}, fmt.Errorf("decoding timeline of practicum %s: %w", practicumID, err)
	}
	if err := validation.Config(cfg); err != nil {
		return domain.TimelineConfig{}, fmt.Errorf("stored timeline of practicum %s is invalid: %w", practicumID, err)
	}
	return cfg.Clone(), nil
}

// SaveTimeline replaces the whole document in a single UPDATE.
func (s *SQLiteTimelineStore) SaveTimeline(ctx context.Context, practicumID string, cfg domain.TimelineConfig) error {
	if err := validation.Config(cfg); err != nil {
		return err
	}
	doc, err := json.Marshal(cfg.Clone())
	if err != nil {
		return fmt.Errorf("encoding timeline: %w", err)
	}

	now := nowUTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE practicums SET timeline = ?, timeline_saved_at = ?, updated_at = ? WHERE id = ?`,
		string(doc), now, now, practicumID)
	if err != nil {
		return fmt.Errorf("writing timeline: %w", err)
	}
	return requireOneRow(res, practicumID)
}
