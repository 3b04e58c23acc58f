package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/schologic/practicum/internal/domain"
)

var testCohortCounter atomic.Int64

// Practicum options
type PracticumOption func(*domain.Practicum)

func WithDates(start, end string) PracticumOption {
	return func(p *domain.Practicum) {
		p.StartDate = domain.MustParseDay(start)
		p.EndDate = domain.MustParseDay(end)
	}
}

func WithInterval(i domain.LogInterval) PracticumOption {
	return func(p *domain.Practicum) {
		p.LogInterval = i
	}
}

func WithCohortCode(code string) PracticumOption {
	return func(p *domain.Practicum) {
		p.CohortCode = code
	}
}

// NewTestPracticum returns a two-week weekly cohort starting 2026-01-05
// with a unique cohort code.
func NewTestPracticum(title string, opts ...PracticumOption) *domain.Practicum {
	now := time.Now().UTC().Truncate(time.Second)
	n := testCohortCounter.Add(1)
	p := &domain.Practicum{
		ID:          uuid.New().String(),
		CohortCode:  fmt.Sprintf("%s-T%05d", domain.CohortCodePrefix, n),
		Title:       title,
		StartDate:   domain.MustParseDay("2026-01-05"),
		EndDate:     domain.MustParseDay("2026-01-18"),
		LogInterval: domain.LogWeekly,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Event options
type EventOption func(*domain.TimelineEvent)

func WithEventType(t domain.EventType) EventOption {
	return func(e *domain.TimelineEvent) {
		e.Type = t
	}
}

func WithDescription(d string) EventOption {
	return func(e *domain.TimelineEvent) {
		e.Description = d
	}
}

func WithTime(t time.Time) EventOption {
	return func(e *domain.TimelineEvent) {
		e.Date = domain.At(t)
	}
}

// NewTestEvent returns a manual milestone on date (YYYY-MM-DD).
func NewTestEvent(title, date string, opts ...EventOption) domain.TimelineEvent {
	e := domain.TimelineEvent{
		ID:    uuid.New().String(),
		Title: title,
		Date:  domain.OnDay(domain.MustParseDay(date)),
		Type:  domain.EventMilestone,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
