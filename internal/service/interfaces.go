package service

import (
	"context"
	"io"

	"github.com/schologic/practicum/internal/domain"
	"github.com/schologic/practicum/internal/timeline"
)

// CreatePracticumInput is the cohort creation form.
type CreatePracticumInput struct {
	Title       string
	StartDate   domain.Day
	EndDate     domain.Day
	LogInterval domain.LogInterval
}

// RescheduleInput changes a cohort's generator inputs. Zero fields keep
// their current value. With Regenerate set the timeline is replaced in the
// same transaction; otherwise it is left alone.
type RescheduleInput struct {
	Title       string
	StartDate   domain.Day
	EndDate     domain.Day
	LogInterval domain.LogInterval
	Regenerate  bool
}

type PracticumService interface {
	// Create validates the form, mints a cohort code and stores the
	// practicum with its generated timeline.
	Create(ctx context.Context, in CreatePracticumInput) (*domain.Practicum, domain.TimelineConfig, error)
	// Resolve finds a practicum by cohort code, id or unique id prefix.
	Resolve(ctx context.Context, ref string) (*domain.Practicum, error)
	List(ctx context.Context) ([]*domain.Practicum, error)
	Reschedule(ctx context.Context, id string, in RescheduleInput) (*domain.Practicum, error)
	Delete(ctx context.Context, id string) error
}

// Format names an export/import encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LogSchedule summarizes a timeline's log deadlines relative to a day.
type LogSchedule struct {
	Today         domain.Day
	Next          *domain.TimelineEvent
	DaysUntilNext int
	Previous      *domain.TimelineEvent
	Remaining     int
	Total         int
	// Upcoming lists the next few non-log events on or after Today.
	Upcoming []domain.TimelineEvent
}

type TimelineService interface {
	Get(ctx context.Context, practicumID string) (domain.TimelineConfig, error)
	// OpenEditor returns an editor loaded with the stored timeline. Its
	// saves go through the same store and are observed.
	OpenEditor(ctx context.Context, practicumID string, opts ...timeline.EditorOption) (*timeline.Editor, error)
	Preview(start, end domain.Day, interval domain.LogInterval, label string) (domain.TimelineConfig, error)
	Export(ctx context.Context, practicumID string, format Format, w io.Writer) error
	// Import decodes and validates a document and replaces the stored
	// timeline with it.
	Import(ctx context.Context, practicumID string, format Format, r io.Reader) (domain.TimelineConfig, error)
	LogSchedule(ctx context.Context, practicumID string, today domain.Day) (*LogSchedule, error)
}
