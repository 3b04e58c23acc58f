package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/schologic/practicum/internal/db"
	"github.com/schologic/practicum/internal/domain"
)

// SQLitePracticumRepo implements PracticumRepo using a SQLite database.
type SQLitePracticumRepo struct {
	db db.DBTX
}

// NewSQLitePracticumRepo creates a repo over a *sql.DB or a transaction.
func NewSQLitePracticumRepo(db db.DBTX) *SQLitePracticumRepo {
	return &SQLitePracticumRepo{db: db}
}

const practicumColumns = `id, cohort_code, title, start_date, end_date, log_interval, created_at, updated_at, timeline_saved_at`

func (r *SQLitePracticumRepo) Create(ctx context.Context, p *domain.Practicum, timeline domain.TimelineConfig) error {
	doc, err := json.Marshal(timeline.Clone())
	if err != nil {
		return fmt.Errorf("encoding timeline: %w", err)
	}
	query := `INSERT INTO practicums (id, cohort_code, title, start_date, end_date, log_interval, timeline, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.CohortCode,
		p.Title,
		p.StartDate.String(),
		p.EndDate.String(),
		string(p.LogInterval),
		string(doc),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting practicum: %w", err)
	}
	return nil
}

func (r *SQLitePracticumRepo) GetByID(ctx context.Context, id string) (*domain.Practicum, error) {
	query := `SELECT ` + practicumColumns + ` FROM practicums WHERE id = ?`
	return r.scanPracticum(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePracticumRepo) GetByCode(ctx context.Context, code string) (*domain.Practicum, error) {
	query := `SELECT ` + practicumColumns + ` FROM practicums WHERE UPPER(cohort_code) = UPPER(?)`
	return r.scanPracticum(r.db.QueryRowContext(ctx, query, code))
}

func (r *SQLitePracticumRepo) List(ctx context.Context) ([]*domain.Practicum, error) {
	query := `SELECT ` + practicumColumns + ` FROM practicums ORDER BY start_date, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing practicums: %w", err)
	}
	defer rows.Close()

	var practicums []*domain.Practicum
	for rows.Next() {
		p, err := r.scanPracticum(rows)
		if err != nil {
			return nil, err
		}
		practicums = append(practicums, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating practicums: %w", err)
	}
	return practicums, nil
}

func (r *SQLitePracticumRepo) UpdateSchedule(ctx context.Context, p *domain.Practicum) error {
	query := `UPDATE practicums SET title = ?, start_date = ?, end_date = ?, log_interval = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.StartDate.String(),
		p.EndDate.String(),
		string(p.LogInterval),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating practicum: %w", err)
	}
	return requireOneRow(res, p.ID)
}

func (r *SQLitePracticumRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM practicums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting practicum: %w", err)
	}
	return requireOneRow(res, id)
}

func (r *SQLitePracticumRepo) scanPracticum(row rowScanner) (*domain.Practicum, error) {
	var p domain.Practicum
	var startStr, endStr, intervalStr, createdAtStr, updatedAtStr string
	var savedAtStr sql.NullString

	err := row.Scan(
		&p.ID, &p.CohortCode, &p.Title,
		&startStr, &endStr, &intervalStr,
		&createdAtStr, &updatedAtStr, &savedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPracticumNotFound
		}
		return nil, fmt.Errorf("scanning practicum: %w", err)
	}

	p.LogInterval = domain.LogInterval(intervalStr)

	var parseErr error
	if p.StartDate, parseErr = domain.ParseDay(startStr); parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	if p.EndDate, parseErr = domain.ParseDay(endStr); parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	if p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	p.TimelineSavedAt = parseNullableTime(savedAtStr, time.RFC3339)

	return &p, nil
}

// requireOneRow maps a write that touched nothing to ErrPracticumNotFound.
func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPracticumNotFound, id)
	}
	return nil
}
