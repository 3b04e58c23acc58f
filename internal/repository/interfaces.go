package repository

import (
	"context"

	"github.com/schologic/practicum/internal/domain"
)

// PracticumRepo stores cohort records together with their timeline
// document.
type PracticumRepo interface {
	// Create inserts the practicum and its initial timeline in one row.
	Create(ctx context.Context, p *domain.Practicum, timeline domain.TimelineConfig) error
	GetByID(ctx context.Context, id string) (*domain.Practicum, error)
	GetByCode(ctx context.Context, code string) (*domain.Practicum, error)
	List(ctx context.Context) ([]*domain.Practicum, error)
	// UpdateSchedule changes the cohort inputs the generator runs with.
	UpdateSchedule(ctx context.Context, p *domain.Practicum) error
	// Delete removes the practicum and, with it, its timeline.
	Delete(ctx context.Context, id string) error
}

// TimelineStore reads and replaces the timeline document of a practicum.
type TimelineStore interface {
	LoadTimeline(ctx context.Context, practicumID string) (domain.TimelineConfig, error)
	SaveTimeline(ctx context.Context, practicumID string, cfg domain.TimelineConfig) error
}
